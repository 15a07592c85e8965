// Package handlers exposes the services over HTTP with gin.
//
// Every route under /api/v1 except /info sits behind middleware.Account, and
// handlers pass the resolved account to the services explicitly.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apierrors "github.com/natovichat/rent-management-app/api/internal/errors"
	"github.com/natovichat/rent-management-app/api/internal/export"
	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// ListResponse wraps a list endpoint's items.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

func mapAll[S, T any](in []S, fn func(*S) T) []T {
	out := make([]T, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}

// respondError maps a service error to its HTTP response. Anything that is
// not a known client error is logged and answered with a generic 500.
func respondError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, apierrors.ErrorResponse{Error: apierrors.ErrorDetail{
			Code:      "PAYLOAD_TOO_LARGE",
			Message:   "Upload exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			RequestID: middleware.GetRequestID(c),
		}})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, finance.ErrInvalidGranularity),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrTooFewPeriods):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrIncomeNotFound),
		errors.Is(err, services.ErrMortgageNotFound),
		errors.Is(err, services.ErrUnitNotFound),
		errors.Is(err, services.ErrTenantNotFound),
		errors.Is(err, services.ErrOwnerNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOwnershipExists),
		errors.Is(err, services.ErrUnitExists):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalServerError(c, message, err)
	}
}

// bindJSON decodes the body into req and writes the 400 itself on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", map[string]interface{}{"reason": err.Error()})
		return false
	}
	return true
}

// pathID parses a UUID path parameter, writing a 400 when malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, name+" must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", services.ErrInvalidInput, field)
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// financialFilter reads propertyId, startDate and endDate from the query.
func financialFilter(c *gin.Context) (models.FinancialFilter, error) {
	var f models.FinancialFilter

	if raw := c.Query("propertyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("%w: propertyId must be a UUID", services.ErrInvalidInput)
		}
		f.PropertyID = &id
	}

	start, end := c.Query("startDate"), c.Query("endDate")
	var err error
	if f.StartDate, err = parseOptionalDate("startDate", &start); err != nil {
		return f, err
	}
	if f.EndDate, err = parseOptionalDate("endDate", &end); err != nil {
		return f, err
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, fmt.Errorf("%w: endDate must not be before startDate", services.ErrInvalidInput)
	}
	return f, nil
}

// page reads limit and offset from the query.
func page(c *gin.Context) (models.Page, error) {
	var p models.Page
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: %s must be a non-negative integer", services.ErrInvalidInput, name)
		}
		*dst = n
	}
	return p.Normalize(), nil
}

func transactionQuery(c *gin.Context) (models.TransactionQuery, error) {
	f, err := financialFilter(c)
	if err != nil {
		return models.TransactionQuery{}, err
	}
	p, err := page(c)
	if err != nil {
		return models.TransactionQuery{}, err
	}
	return models.TransactionQuery{
		FinancialFilter: f,
		Type:            strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		Page:            p,
	}, nil
}

// money converts an amount to a JSON number rounded to cents.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func moneyPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := money(*d)
	return &v
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
