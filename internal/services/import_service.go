package services

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// ExpenseImportHeader is the required first line of an expense CSV.
var ExpenseImportHeader = []string{"propertyId", "date", "amount", "type", "description"}

// RowError describes why one CSV line was not imported. Row is the line
// number in the file, the header being line 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
	// Aborted is set when failures were not skipped and nothing was written.
	Aborted bool `json:"aborted"`
}

// ImportService defines the interface for bulk imports.
type ImportService interface {
	// ImportExpenses reads a CSV with ExpenseImportHeader and creates one
	// expense per valid line in a single transaction. With skipErrors the
	// valid lines are committed and the rest reported; without it any
	// failing line aborts the import and nothing is committed.
	// Returns ErrInvalidInput for an empty file or a wrong header.
	// Returns error for read or database failures; row problems are
	// reported in the ImportReport, not as an error.
	ImportExpenses(ctx context.Context, accountID uuid.UUID, r io.Reader, skipErrors bool) (*ImportReport, error)
}

// expenseRow is one CSV line before conversion.
type expenseRow struct {
	PropertyID  string `csv:"propertyId" validate:"required,uuid"`
	Date        string `csv:"date" validate:"required,datetime=2006-01-02"`
	Amount      string `csv:"amount" validate:"required,numeric"`
	Type        string `csv:"type" validate:"required,expense_type"`
	Description string `csv:"description" validate:"max=1000"`
}

// importService is the concrete implementation of ImportService.
type importService struct {
	expenses   repository.ExpenseRepository
	properties repository.PropertyRepository
	tx         Transactor
	validate   *validator.Validate
	log        *logger.Logger
}

// NewImportService creates a new instance of ImportService.
func NewImportService(expenses repository.ExpenseRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) ImportService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("csv")
	})
	if err := v.RegisterValidation("expense_type", func(fl validator.FieldLevel) bool {
		return models.ExpenseType(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("services: register expense_type validation: %v", err))
	}

	return &importService{
		expenses:   expenses,
		properties: properties,
		tx:         tx,
		validate:   v,
		log:        log,
	}
}

var errImportAborted = errors.New("import aborted")

// pendingExpense is a parsed row waiting for its ownership check.
type pendingExpense struct {
	line    int
	expense models.Expense
}

// ImportExpenses parses and validates every line before opening the
// transaction, then checks property ownership once per property and inserts
// the valid rows.
func (s *importService) ImportExpenses(ctx context.Context, accountID uuid.UUID, r io.Reader, skipErrors bool) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalid("file is empty")
		}
		return nil, invalid("unreadable CSV: %v", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	// Parse every row up front
	report := &ImportReport{Errors: []RowError{}}
	var rows []pendingExpense

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				report.Total++
				report.Errors = append(report.Errors, RowError{Row: parseErr.StartLine, Message: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}

		report.Total++
		line, _ := reader.FieldPos(0)
		e, err := s.parseRow(record)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: line, Message: err.Error()})
			continue
		}
		e.AccountID = accountID
		rows = append(rows, pendingExpense{line: line, expense: *e})
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		// Check ownership once per distinct property
		owned := make(map[uuid.UUID]bool)
		valid := rows[:0]
		for _, row := range rows {
			ok, seen := owned[row.expense.PropertyID]
			if !seen {
				var err error
				ok, err = s.properties.Owned(ctx, accountID, row.expense.PropertyID)
				if err != nil {
					return fmt.Errorf("failed to verify property: %w", err)
				}
				owned[row.expense.PropertyID] = ok
			}
			if !ok {
				report.Errors = append(report.Errors, RowError{
					Row:     row.line,
					Message: fmt.Sprintf("property %s not found", row.expense.PropertyID),
				})
				continue
			}
			valid = append(valid, row)
		}

		if len(report.Errors) > 0 && !skipErrors {
			return errImportAborted
		}

		for i := range valid {
			if err := s.expenses.Create(ctx, &valid[i].expense); err != nil {
				return fmt.Errorf("failed to import line %d: %w", valid[i].line, err)
			}
			report.Imported++
		}
		return nil
	})

	report.Failed = len(report.Errors)
	slices.SortStableFunc(report.Errors, func(a, b RowError) int {
		return cmp.Compare(a.Row, b.Row)
	})

	switch {
	case errors.Is(err, errImportAborted):
		report.Aborted = true
		report.Imported = 0
	case err != nil:
		s.log.Error("Expense import failed", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, err
	}

	s.log.Info("Expense import finished", map[string]interface{}{
		"account_id": accountID,
		"total":      report.Total,
		"imported":   report.Imported,
		"failed":     report.Failed,
		"aborted":    report.Aborted,
	})
	return report, nil
}

// checkHeader accepts the header with or without the description column
// and tolerates a UTF-8 BOM.
func checkHeader(header []string) error {
	if len(header) < len(ExpenseImportHeader)-1 || len(header) > len(ExpenseImportHeader) {
		return invalid("header must be %s", strings.Join(ExpenseImportHeader, ","))
	}
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if !strings.EqualFold(strings.TrimSpace(name), ExpenseImportHeader[i]) {
			return invalid("header must be %s, column %d is %q", strings.Join(ExpenseImportHeader, ","), i+1, name)
		}
	}
	return nil
}

// isBlank reports whether every field is whitespace.
func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRow converts one line into an expense, or explains why it cannot.
// Errors are row messages without the ErrInvalidInput prefix.
func (s *importService) parseRow(record []string) (*models.Expense, error) {
	if len(record) < len(ExpenseImportHeader)-1 {
		return nil, fmt.Errorf("expected %d columns, got %d", len(ExpenseImportHeader), len(record))
	}

	row := expenseRow{
		PropertyID: strings.TrimSpace(record[0]),
		Date:       strings.TrimSpace(record[1]),
		Amount:     strings.TrimSpace(record[2]),
		Type:       strings.ToUpper(strings.TrimSpace(record[3])),
	}
	if len(record) > 4 {
		row.Description = strings.TrimSpace(record[4])
	}

	if err := s.validate.Struct(row); err != nil {
		return nil, describeValidation(err)
	}

	// The validator has already vetted each format.
	propertyID := uuid.MustParse(row.PropertyID)
	date, _ := time.Parse(models.DateLayout, row.Date)
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %v", err)
	}

	e := &models.Expense{
		PropertyID:  propertyID,
		Date:        date,
		Amount:      amount,
		Type:        models.ExpenseType(row.Type),
		Description: row.Description,
	}
	if err := validateExpense(e); err != nil {
		return nil, errors.New(strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
	}
	return e, nil
}

// describeValidation turns the first validator failure into a row message.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "uuid":
		return fmt.Errorf("%s must be a UUID", fe.Field())
	case "datetime":
		return fmt.Errorf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "numeric":
		return fmt.Errorf("%s must be a number", fe.Field())
	case "expense_type":
		return fmt.Errorf("unknown expense type %q", fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
