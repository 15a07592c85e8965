package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
)

type importFixture struct {
	expenses   *MockExpenseRepository
	properties *MockPropertyRepository
	tx         *fakeTx
	service    ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		expenses:   new(MockExpenseRepository),
		properties: new(MockPropertyRepository),
		tx:         &fakeTx{},
	}
	f.service = NewImportService(f.expenses, f.properties, f.tx, logger.New("test"))
	return f
}

func csvBody(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestNewImportService_RegistersExpenseType(t *testing.T) {
	var svc ImportService
	require.NotPanics(t, func() {
		svc = NewImportService(new(MockExpenseRepository), new(MockPropertyRepository), &fakeTx{}, logger.New("test"))
	})

	row := expenseRow{PropertyID: uuid.NewString(), Date: "2024-01-01", Amount: "10", Type: "FOOD"}
	err := svc.(*importService).validate.Struct(row)
	require.Error(t, err)
	assert.EqualError(t, describeValidation(err), `unknown expense type "FOOD"`)
}

func TestImportExpenses_SkipErrorsCommitsValidRows(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()
	accountID, owned, foreign := uuid.New(), uuid.New(), uuid.New()

	f.properties.On("Owned", ctx, accountID, owned).Return(true, nil)
	f.properties.On("Owned", ctx, accountID, foreign).Return(false, nil)
	f.expenses.On("Create", ctx, mock.AnythingOfType("*models.Expense")).Return(nil)

	body := csvBody(
		"propertyId,date,amount,type,description",
		owned.String()+",2024-01-15,250.00,maintenance,boiler",
		owned.String()+",2024-01-16,-100,TAX,",
		foreign.String()+",2024-01-17,80,UTILITIES,water",
		"not-a-uuid,2024-01-18,80,UTILITIES,water",
		owned.String()+",15/01/2024,80,UTILITIES,water",
		owned.String()+",2024-02-01,99.90,INSURANCE",
	)

	report, err := f.service.ImportExpenses(ctx, accountID, body, true)

	require.NoError(t, err)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 4, report.Failed)
	assert.False(t, report.Aborted)
	require.Len(t, report.Errors, 4)

	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Message, "amount must be greater than 0")
	assert.Equal(t, 4, report.Errors[1].Row)
	assert.Contains(t, report.Errors[1].Message, "not found")
	assert.Equal(t, 5, report.Errors[2].Row)
	assert.Contains(t, report.Errors[2].Message, "propertyId must be a UUID")
	assert.Equal(t, 6, report.Errors[3].Row)
	assert.Contains(t, report.Errors[3].Message, "date")

	f.expenses.AssertNumberOfCalls(t, "Create", 2)
	f.properties.AssertNumberOfCalls(t, "Owned", 2)
	assert.Equal(t, 1, f.tx.calls)

	first := f.expenses.Calls[0].Arguments.Get(1).(*models.Expense)
	assert.Equal(t, models.ExpenseMaintenance, first.Type, "type is case-insensitive")
	assert.Equal(t, accountID, first.AccountID)
	assertDecimal(t, "250", first.Amount)
}

func TestImportExpenses_NoSkipAbortsWithoutWriting(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()
	accountID, owned := uuid.New(), uuid.New()

	f.properties.On("Owned", ctx, accountID, owned).Return(true, nil)

	body := csvBody(
		"propertyId,date,amount,type,description",
		owned.String()+",2024-01-15,250.00,MAINTENANCE,boiler",
		owned.String()+",2024-01-16,12,PARTY,",
	)

	report, err := f.service.ImportExpenses(ctx, accountID, body, false)

	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0].Message, `unknown expense type "PARTY"`)
	f.expenses.AssertNotCalled(t, "Create")
}

func TestImportExpenses_OutOfRangeAmountsAreRowErrors(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()
	accountID, owned := uuid.New(), uuid.New()

	f.properties.On("Owned", ctx, accountID, owned).Return(true, nil)
	f.expenses.On("Create", ctx, mock.AnythingOfType("*models.Expense")).Return(nil)

	report, err := f.service.ImportExpenses(ctx, accountID, csvBody(
		"propertyId,date,amount,type,description",
		owned.String()+",2024-01-15,100000000000000,TAX,",
		owned.String()+",2024-01-16,10.555,TAX,",
		owned.String()+",2024-01-17,999999999999.99,TAX,",
	), true)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Equal(t, "amount must be less than 1000000000000", report.Errors[0].Message)
	assert.Equal(t, 3, report.Errors[1].Row)
	assert.Equal(t, "amount must have at most 2 decimal places", report.Errors[1].Message)

	f.expenses.AssertNumberOfCalls(t, "Create", 1)
	assertDecimal(t, "999999999999.99", f.expenses.Calls[0].Arguments.Get(1).(*models.Expense).Amount)
}

func TestImportExpenses_NoSkipAllValid(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()
	accountID, owned := uuid.New(), uuid.New()

	f.properties.On("Owned", ctx, accountID, owned).Return(true, nil)
	f.expenses.On("Create", ctx, mock.AnythingOfType("*models.Expense")).Return(nil)

	report, err := f.service.ImportExpenses(ctx, accountID, csvBody(
		"propertyId,date,amount,type,description",
		owned.String()+",2024-01-15,250.00,LEGAL,\"notary, stamp\"",
		"",
	), false)

	require.NoError(t, err)
	assert.False(t, report.Aborted)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Empty(t, report.Errors)
}

func TestImportExpenses_BadHeaderOrEmpty(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()

	_, err := f.service.ImportExpenses(ctx, uuid.New(), strings.NewReader(""), true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.ImportExpenses(ctx, uuid.New(), csvBody("property,when,amount,type"), true)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "header must be")

	assert.Zero(t, f.tx.calls)
}
