package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apierrors "github.com/natovichat/rent-management-app/api/internal/errors"
	"github.com/natovichat/rent-management-app/api/internal/export"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// ExpenseRequest is the body of POST /expenses.
type ExpenseRequest struct {
	PropertyID  string           `json:"propertyId" binding:"required,uuid"`
	ExpenseDate string           `json:"expenseDate" binding:"required,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Type        string           `json:"type" binding:"required"`
	Description string           `json:"description" binding:"max=1000"`
}

// ExpensePatchRequest is the body of PATCH /expenses/:id.
type ExpensePatchRequest struct {
	PropertyID  *string          `json:"propertyId" binding:"omitempty,uuid"`
	ExpenseDate *string          `json:"expenseDate" binding:"omitempty,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
}

// IncomeRequest is the body of POST /income.
type IncomeRequest struct {
	PropertyID  string           `json:"propertyId" binding:"required,uuid"`
	IncomeDate  string           `json:"incomeDate" binding:"required,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Type        string           `json:"type" binding:"required"`
	Source      string           `json:"source" binding:"max=200"`
	Description string           `json:"description" binding:"max=1000"`
}

// IncomePatchRequest is the body of PATCH /income/:id.
type IncomePatchRequest struct {
	PropertyID  *string          `json:"propertyId" binding:"omitempty,uuid"`
	IncomeDate  *string          `json:"incomeDate" binding:"omitempty,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type"`
	Source      *string          `json:"source" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
}

// ExpenseHandler handles expense CRUD, export and CSV import.
type ExpenseHandler struct {
	expenses       services.ExpenseService
	imports        services.ImportService
	maxImportBytes int64
}

// NewExpenseHandler creates a new ExpenseHandler. Import bodies larger than
// maxImportBytes are rejected with 413.
func NewExpenseHandler(expenses services.ExpenseService, imports services.ImportService, maxImportBytes int64) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, imports: imports, maxImportBytes: maxImportBytes}
}

// List handles GET /api/v1/expenses?propertyId=&startDate=&endDate=&type=&limit=&offset=.
func (h *ExpenseHandler) List(c *gin.Context) {
	q, err := transactionQuery(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	list, err := h.expenses.List(c.Request.Context(), middleware.GetAccountID(c), q)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toExpenseResponse)))
}

// Create handles POST /api/v1/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("expenseDate", req.ExpenseDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.expenses.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Expense{
		PropertyID:  uuid.MustParse(req.PropertyID),
		Date:        date,
		Amount:      *req.Amount,
		Type:        models.ExpenseType(strings.ToUpper(req.Type)),
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, toExpenseResponse(created))
}

// Get handles GET /api/v1/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	e, err := h.expenses.Get(c.Request.Context(), middleware.GetAccountID(c), id)
	if err != nil {
		respondError(c, err, "Failed to load expense")
		return
	}

	c.JSON(http.StatusOK, toExpenseResponse(e))
}

// Update handles PATCH /api/v1/expenses/:id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ExpensePatchRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseOptionalDate("expenseDate", req.ExpenseDate)
	if err != nil {
		respondError(c, err, "")
		return
	}
	patch := models.ExpensePatch{
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.PropertyID != nil {
		pid := uuid.MustParse(*req.PropertyID)
		patch.PropertyID = &pid
	}
	if req.Type != nil {
		t := models.ExpenseType(strings.ToUpper(*req.Type))
		patch.Type = &t
	}

	updated, err := h.expenses.Update(c.Request.Context(), middleware.GetAccountID(c), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update expense")
		return
	}

	c.JSON(http.StatusOK, toExpenseResponse(updated))
}

// Delete handles DELETE /api/v1/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), middleware.GetAccountID(c), id); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /api/v1/expenses/export?format=csv|xlsx with the same
// filters as List, minus paging.
func (h *ExpenseHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	q, err := transactionQuery(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	accountID := middleware.GetAccountID(c)
	all, err := collectPages(c.Request.Context(), q, func(ctx context.Context, q models.TransactionQuery) ([]models.Expense, error) {
		return h.expenses.List(ctx, accountID, q)
	})
	if err != nil {
		respondError(c, err, "Failed to export expenses")
		return
	}

	sendTable(c, format, "expenses", export.ExpenseTable(all))
}

// Import handles POST /api/v1/expenses/import?skipErrors=true|false. The CSV
// is either the raw body or the "file" field of a multipart form.
func (h *ExpenseHandler) Import(c *gin.Context) {
	skipErrors := true
	if raw := c.Query("skipErrors"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "skipErrors must be true or false", nil)
			return
		}
		skipErrors = v
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes)

	body, closeBody, err := uploadedCSV(c)
	if err != nil {
		respondError(c, err, "")
		return
	}
	defer closeBody()

	report, err := h.imports.ImportExpenses(c.Request.Context(), middleware.GetAccountID(c), body, skipErrors)
	if err != nil {
		respondError(c, err, "Failed to import expenses")
		return
	}

	c.JSON(http.StatusOK, report)
}

func uploadedCSV(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, func() {}, nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: multipart field \"file\" is required", services.ErrInvalidInput)
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// IncomeHandler handles income CRUD and export.
type IncomeHandler struct {
	income services.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler instance.
func NewIncomeHandler(income services.IncomeService) *IncomeHandler {
	return &IncomeHandler{income: income}
}

// List handles GET /api/v1/income.
func (h *IncomeHandler) List(c *gin.Context) {
	q, err := transactionQuery(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	list, err := h.income.List(c.Request.Context(), middleware.GetAccountID(c), q)
	if err != nil {
		respondError(c, err, "Failed to list income")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toIncomeResponse)))
}

// Create handles POST /api/v1/income.
func (h *IncomeHandler) Create(c *gin.Context) {
	var req IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("incomeDate", req.IncomeDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.income.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Income{
		PropertyID:  uuid.MustParse(req.PropertyID),
		Date:        date,
		Amount:      *req.Amount,
		Type:        models.IncomeType(strings.ToUpper(req.Type)),
		Source:      req.Source,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "Failed to create income")
		return
	}

	c.JSON(http.StatusCreated, toIncomeResponse(created))
}

// Get handles GET /api/v1/income/:id.
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	in, err := h.income.Get(c.Request.Context(), middleware.GetAccountID(c), id)
	if err != nil {
		respondError(c, err, "Failed to load income")
		return
	}

	c.JSON(http.StatusOK, toIncomeResponse(in))
}

// Update handles PATCH /api/v1/income/:id.
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req IncomePatchRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseOptionalDate("incomeDate", req.IncomeDate)
	if err != nil {
		respondError(c, err, "")
		return
	}
	patch := models.IncomePatch{
		Date:        date,
		Amount:      req.Amount,
		Source:      req.Source,
		Description: req.Description,
	}
	if req.PropertyID != nil {
		pid := uuid.MustParse(*req.PropertyID)
		patch.PropertyID = &pid
	}
	if req.Type != nil {
		t := models.IncomeType(strings.ToUpper(*req.Type))
		patch.Type = &t
	}

	updated, err := h.income.Update(c.Request.Context(), middleware.GetAccountID(c), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update income")
		return
	}

	c.JSON(http.StatusOK, toIncomeResponse(updated))
}

// Delete handles DELETE /api/v1/income/:id.
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.income.Delete(c.Request.Context(), middleware.GetAccountID(c), id); err != nil {
		respondError(c, err, "Failed to delete income")
		return
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /api/v1/income/export?format=csv|xlsx.
func (h *IncomeHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	q, err := transactionQuery(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	accountID := middleware.GetAccountID(c)
	all, err := collectPages(c.Request.Context(), q, func(ctx context.Context, q models.TransactionQuery) ([]models.Income, error) {
		return h.income.List(ctx, accountID, q)
	})
	if err != nil {
		respondError(c, err, "Failed to export income")
		return
	}

	sendTable(c, format, "income", export.IncomeTable(all))
}

// collectPages walks list from offset 0 in pages of MaxPageSize until a
// short page comes back.
func collectPages[T any](ctx context.Context, q models.TransactionQuery, list func(context.Context, models.TransactionQuery) ([]T, error)) ([]T, error) {
	q.Page = models.Page{Limit: models.MaxPageSize}
	var all []T
	for {
		batch, err := list(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < q.Page.Limit {
			return all, nil
		}
		q.Page.Offset += q.Page.Limit
	}
}

// sendTable renders t fully before writing so a failure still gets a JSON 500.
func sendTable(c *gin.Context, format export.Format, base string, t export.Table) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, t); err != nil {
		respondError(c, err, "Failed to render export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.Filename(base)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
