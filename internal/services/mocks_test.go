package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// fakeTx runs fn directly and counts transactions.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Owned(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, accountID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, p *models.Property) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) Totals(ctx context.Context, accountID uuid.UUID) (repository.PortfolioTotals, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(repository.PortfolioTotals), args.Error(1)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error) {
	args := m.Called(ctx, accountID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, e *models.Expense) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpenseRepository) Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error) {
	args := m.Called(ctx, accountID, f)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *MockExpenseRepository) Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error) {
	args := m.Called(ctx, accountID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

// MockIncomeRepository is a mock implementation of IncomeRepository for testing
type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) Create(ctx context.Context, in *models.Income) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockIncomeRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Income), args.Error(1)
}

func (m *MockIncomeRepository) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error) {
	args := m.Called(ctx, accountID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Income), args.Error(1)
}

func (m *MockIncomeRepository) Update(ctx context.Context, in *models.Income) (bool, error) {
	args := m.Called(ctx, in)
	return args.Bool(0), args.Error(1)
}

func (m *MockIncomeRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockIncomeRepository) Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error) {
	args := m.Called(ctx, accountID, f)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *MockIncomeRepository) Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error) {
	args := m.Called(ctx, accountID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

// MockMortgageRepository is a mock implementation of MortgageRepository for testing
type MockMortgageRepository struct {
	mock.Mock
}

func (m *MockMortgageRepository) Create(ctx context.Context, mo *models.Mortgage) error {
	return m.Called(ctx, mo).Error(0)
}

func (m *MockMortgageRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Mortgage, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mortgage), args.Error(1)
}

func (m *MockMortgageRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error) {
	args := m.Called(ctx, accountID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mortgage), args.Error(1)
}

func (m *MockMortgageRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMortgageRepository) AddPayment(ctx context.Context, p *models.MortgagePayment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockMortgageRepository) Payments(ctx context.Context, mortgageID uuid.UUID) ([]models.MortgagePayment, error) {
	args := m.Called(ctx, mortgageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MortgagePayment), args.Error(1)
}

func (m *MockMortgageRepository) ActivePositions(ctx context.Context, accountID uuid.UUID) ([]repository.LoanPosition, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LoanPosition), args.Error(1)
}

// MockValuationRepository is a mock implementation of ValuationRepository for testing
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) Create(ctx context.Context, v *models.Valuation) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockValuationRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error) {
	args := m.Called(ctx, accountID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Valuation), args.Error(1)
}

func (m *MockValuationRepository) Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error) {
	args := m.Called(ctx, accountID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Valuation), args.Error(1)
}

// MockUnitRepository is a mock implementation of UnitRepository for testing
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Create(ctx context.Context, u *models.Unit) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUnitRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error) {
	args := m.Called(ctx, accountID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Unit), args.Error(1)
}

func (m *MockUnitRepository) Occupancy(ctx context.Context, accountID uuid.UUID) (models.OccupancyCounts, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(models.OccupancyCounts), args.Error(1)
}

// MockTenantRepository is a mock implementation of TenantRepository for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

// MockLeaseRepository is a mock implementation of LeaseRepository for testing
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, l *models.Lease) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeaseRepository) List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error) {
	args := m.Called(ctx, accountID, unitID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lease), args.Error(1)
}

// MockOwnerRepository is a mock implementation of OwnerRepository for testing
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Create(ctx context.Context, o *models.Owner) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOwnerRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockOwnerRepository) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Owner), args.Error(1)
}

func (m *MockOwnerRepository) AddOwnership(ctx context.Context, po *models.PropertyOwnership) error {
	return m.Called(ctx, po).Error(0)
}

func (m *MockOwnerRepository) Ownerships(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error) {
	args := m.Called(ctx, accountID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyOwnership), args.Error(1)
}
