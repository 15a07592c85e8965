package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// ptr returns args[i] as *T, treating an untyped nil as a nil pointer.
func ptr[T any](args mock.Arguments, i int) *T {
	if v, ok := args.Get(i).(*T); ok {
		return v
	}
	return nil
}

func slice[T any](args mock.Arguments, i int) []T {
	if v, ok := args.Get(i).([]T); ok {
		return v
	}
	return nil
}

type MockPropertyService struct{ mock.Mock }

func (m *MockPropertyService) Create(ctx context.Context, accountID uuid.UUID, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, accountID, p)
	return ptr[models.Property](args, 0), args.Error(1)
}

func (m *MockPropertyService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, accountID, id)
	return ptr[models.Property](args, 0), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, accountID, q)
	return slice[models.Property](args, 0), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.PropertyPatch) (*models.Property, error) {
	args := m.Called(ctx, accountID, id, patch)
	return ptr[models.Property](args, 0), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

type MockExpenseService struct{ mock.Mock }

func (m *MockExpenseService) Create(ctx context.Context, accountID uuid.UUID, e *models.Expense) (*models.Expense, error) {
	args := m.Called(ctx, accountID, e)
	return ptr[models.Expense](args, 0), args.Error(1)
}

func (m *MockExpenseService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error) {
	args := m.Called(ctx, accountID, id)
	return ptr[models.Expense](args, 0), args.Error(1)
}

func (m *MockExpenseService) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error) {
	args := m.Called(ctx, accountID, q)
	return slice[models.Expense](args, 0), args.Error(1)
}

func (m *MockExpenseService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.ExpensePatch) (*models.Expense, error) {
	args := m.Called(ctx, accountID, id, patch)
	return ptr[models.Expense](args, 0), args.Error(1)
}

func (m *MockExpenseService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

type MockIncomeService struct{ mock.Mock }

func (m *MockIncomeService) Create(ctx context.Context, accountID uuid.UUID, in *models.Income) (*models.Income, error) {
	args := m.Called(ctx, accountID, in)
	return ptr[models.Income](args, 0), args.Error(1)
}

func (m *MockIncomeService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error) {
	args := m.Called(ctx, accountID, id)
	return ptr[models.Income](args, 0), args.Error(1)
}

func (m *MockIncomeService) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error) {
	args := m.Called(ctx, accountID, q)
	return slice[models.Income](args, 0), args.Error(1)
}

func (m *MockIncomeService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.IncomePatch) (*models.Income, error) {
	args := m.Called(ctx, accountID, id, patch)
	return ptr[models.Income](args, 0), args.Error(1)
}

func (m *MockIncomeService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

type MockImportService struct{ mock.Mock }

func (m *MockImportService) ImportExpenses(ctx context.Context, accountID uuid.UUID, r io.Reader, skipErrors bool) (*services.ImportReport, error) {
	args := m.Called(ctx, accountID, r, skipErrors)
	return ptr[services.ImportReport](args, 0), args.Error(1)
}

type MockFinancialService struct{ mock.Mock }

func (m *MockFinancialService) Summary(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (finance.Summary, error) {
	args := m.Called(ctx, accountID, f)
	return args.Get(0).(finance.Summary), args.Error(1)
}

func (m *MockFinancialService) ExpenseBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, accountID, f)
	return slice[finance.CategoryTotal](args, 0), args.Error(1)
}

func (m *MockFinancialService) IncomeBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, accountID, f)
	return slice[finance.CategoryTotal](args, 0), args.Error(1)
}

func (m *MockFinancialService) PropertyDashboard(ctx context.Context, accountID, propertyID uuid.UUID, f models.FinancialFilter) (*services.PropertyDashboard, error) {
	args := m.Called(ctx, accountID, propertyID, f)
	return ptr[services.PropertyDashboard](args, 0), args.Error(1)
}

func (m *MockFinancialService) Series(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter, g finance.Granularity) ([]finance.PeriodTotal, error) {
	args := m.Called(ctx, accountID, f, g)
	return slice[finance.PeriodTotal](args, 0), args.Error(1)
}

func (m *MockFinancialService) PortfolioSummary(ctx context.Context, accountID uuid.UUID) (*services.PortfolioSummary, error) {
	args := m.Called(ctx, accountID)
	return ptr[services.PortfolioSummary](args, 0), args.Error(1)
}

type MockMortgageService struct{ mock.Mock }

func (m *MockMortgageService) Create(ctx context.Context, accountID uuid.UUID, mg *models.Mortgage) (*models.Mortgage, error) {
	args := m.Called(ctx, accountID, mg)
	return ptr[models.Mortgage](args, 0), args.Error(1)
}

func (m *MockMortgageService) Get(ctx context.Context, accountID, id uuid.UUID) (*services.MortgageDetails, error) {
	args := m.Called(ctx, accountID, id)
	return ptr[services.MortgageDetails](args, 0), args.Error(1)
}

func (m *MockMortgageService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error) {
	args := m.Called(ctx, accountID, propertyID)
	return slice[models.Mortgage](args, 0), args.Error(1)
}

func (m *MockMortgageService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

func (m *MockMortgageService) AddPayment(ctx context.Context, accountID, mortgageID uuid.UUID, p *models.MortgagePayment) (*models.MortgagePayment, error) {
	args := m.Called(ctx, accountID, mortgageID, p)
	return ptr[models.MortgagePayment](args, 0), args.Error(1)
}

type MockValuationService struct{ mock.Mock }

func (m *MockValuationService) Create(ctx context.Context, accountID uuid.UUID, v *models.Valuation) (*models.Valuation, error) {
	args := m.Called(ctx, accountID, v)
	return ptr[models.Valuation](args, 0), args.Error(1)
}

func (m *MockValuationService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error) {
	args := m.Called(ctx, accountID, propertyID)
	return slice[models.Valuation](args, 0), args.Error(1)
}

func (m *MockValuationService) Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error) {
	args := m.Called(ctx, accountID, propertyID)
	return ptr[models.Valuation](args, 0), args.Error(1)
}

type MockUnitService struct{ mock.Mock }

func (m *MockUnitService) Create(ctx context.Context, accountID uuid.UUID, u *models.Unit) (*models.Unit, error) {
	args := m.Called(ctx, accountID, u)
	return ptr[models.Unit](args, 0), args.Error(1)
}

func (m *MockUnitService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error) {
	args := m.Called(ctx, accountID, propertyID)
	return slice[models.Unit](args, 0), args.Error(1)
}

type MockTenantService struct{ mock.Mock }

func (m *MockTenantService) Create(ctx context.Context, accountID uuid.UUID, t *models.Tenant) (*models.Tenant, error) {
	args := m.Called(ctx, accountID, t)
	return ptr[models.Tenant](args, 0), args.Error(1)
}

func (m *MockTenantService) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error) {
	args := m.Called(ctx, accountID, page)
	return slice[models.Tenant](args, 0), args.Error(1)
}

type MockLeaseService struct{ mock.Mock }

func (m *MockLeaseService) Create(ctx context.Context, accountID uuid.UUID, l *models.Lease) (*models.Lease, error) {
	args := m.Called(ctx, accountID, l)
	return ptr[models.Lease](args, 0), args.Error(1)
}

func (m *MockLeaseService) List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error) {
	args := m.Called(ctx, accountID, unitID, page)
	return slice[models.Lease](args, 0), args.Error(1)
}

type MockOwnerService struct{ mock.Mock }

func (m *MockOwnerService) Create(ctx context.Context, accountID uuid.UUID, o *models.Owner) (*models.Owner, error) {
	args := m.Called(ctx, accountID, o)
	return ptr[models.Owner](args, 0), args.Error(1)
}

func (m *MockOwnerService) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error) {
	args := m.Called(ctx, accountID, page)
	return slice[models.Owner](args, 0), args.Error(1)
}

func (m *MockOwnerService) AssignToProperty(ctx context.Context, accountID, propertyID, ownerID uuid.UUID, share decimal.Decimal) (*models.PropertyOwnership, error) {
	args := m.Called(ctx, accountID, propertyID, ownerID, share)
	return ptr[models.PropertyOwnership](args, 0), args.Error(1)
}

func (m *MockOwnerService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error) {
	args := m.Called(ctx, accountID, propertyID)
	return slice[models.PropertyOwnership](args, 0), args.Error(1)
}
