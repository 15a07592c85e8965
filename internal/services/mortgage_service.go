package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// MortgageDetails is a mortgage with its payment ledger and what is left to repay.
type MortgageDetails struct {
	Mortgage         models.Mortgage
	Payments         []models.MortgagePayment
	PrincipalPaid    decimal.Decimal
	RemainingBalance decimal.Decimal
}

// MortgageService defines the interface for mortgage business logic operations.
type MortgageService interface {
	// Create records a mortgage on one of the account's properties.
	// Returns ErrInvalidInput for a missing bank or start date, a loan
	// amount, rate or payment out of range, or an end before the start.
	// Returns ErrPropertyNotFound if the account does not own the property.
	Create(ctx context.Context, accountID uuid.UUID, m *models.Mortgage) (*models.Mortgage, error)

	// Get returns the mortgage with payments and remaining balance. The balance
	// is loanAmount minus the principal paid and may go below zero.
	// Returns ErrMortgageNotFound if it is absent or belongs to another account.
	Get(ctx context.Context, accountID, id uuid.UUID) (*MortgageDetails, error)

	// ListByProperty returns ErrPropertyNotFound for a foreign property.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error)

	// Delete removes a mortgage and its payments.
	// Returns ErrMortgageNotFound if it is absent or belongs to another account.
	Delete(ctx context.Context, accountID, id uuid.UUID) error

	// AddPayment records a payment against a mortgage the account owns.
	// Returns ErrInvalidInput for a missing date, a non-positive amount, or
	// a negative principal or interest.
	// Returns ErrMortgageNotFound if the account does not own the mortgage.
	AddPayment(ctx context.Context, accountID, mortgageID uuid.UUID, p *models.MortgagePayment) (*models.MortgagePayment, error)
}

// mortgageService is the concrete implementation of MortgageService.
type mortgageService struct {
	repo       repository.MortgageRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewMortgageService creates a new instance of MortgageService.
func NewMortgageService(repo repository.MortgageRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) MortgageService {
	return &mortgageService{
		repo:       repo,
		properties: properties,
		tx:         tx,
		log:        log,
	}
}

// validateMortgage defaults a missing status to ACTIVE.
func validateMortgage(m *models.Mortgage) error {
	if m.PropertyID == uuid.Nil {
		return invalid("propertyId is required")
	}
	if strings.TrimSpace(m.Bank) == "" {
		return invalid("bank is required")
	}
	if err := requirePositive("loanAmount", m.LoanAmount); err != nil {
		return err
	}
	if err := requireMoney("loanAmount", m.LoanAmount, amountPrecision); err != nil {
		return err
	}
	if err := requireNonNegative("interestRate", m.InterestRate); err != nil {
		return err
	}
	if err := requireFits("interestRate", m.InterestRate, 6, 3); err != nil {
		return err
	}
	if m.StartDate.IsZero() {
		return invalid("startDate is required")
	}
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return invalid("endDate must not be before startDate")
	}
	if m.MonthlyPayment != nil {
		if err := requirePositive("monthlyPayment", *m.MonthlyPayment); err != nil {
			return err
		}
		if err := requireMoney("monthlyPayment", *m.MonthlyPayment, paymentPrecision); err != nil {
			return err
		}
	}
	if m.Status == "" {
		m.Status = models.MortgageActive
	}
	if !m.Status.Valid() {
		return invalid("unknown mortgage status %q", m.Status)
	}
	return nil
}

// validatePayment checks the payment date and each money part.
func validatePayment(p *models.MortgagePayment) error {
	if p.PaymentDate.IsZero() {
		return invalid("paymentDate is required")
	}
	// Each part must be non-negative and fit the payment columns
	checks := []struct {
		field    string
		value    decimal.Decimal
		positive bool
	}{
		{"amount", p.Amount, true},
		{"principal", p.Principal, false},
		{"interest", p.Interest, false},
	}
	for _, c := range checks {
		check := requireNonNegative
		if c.positive {
			check = requirePositive
		}
		if err := check(c.field, c.value); err != nil {
			return err
		}
		if err := requireMoney(c.field, c.value, paymentPrecision); err != nil {
			return err
		}
	}
	return nil
}

// Create validates the mortgage, then checks the property and inserts in
// one transaction.
func (s *mortgageService) Create(ctx context.Context, accountID uuid.UUID, m *models.Mortgage) (*models.Mortgage, error) {
	m.AccountID = accountID
	if err := validateMortgage(m); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, m.PropertyID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("failed to create mortgage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Mortgage created", map[string]interface{}{
		"account_id":  accountID,
		"mortgage_id": m.ID,
		"property_id": m.PropertyID,
	})
	return m, nil
}

// find loads a mortgage and maps a missing row to ErrMortgageNotFound.
func (s *mortgageService) find(ctx context.Context, accountID, id uuid.UUID) (*models.Mortgage, error) {
	m, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		s.log.Error("Failed to query mortgage", err, map[string]interface{}{
			"account_id":  accountID,
			"mortgage_id": id,
		})
		return nil, fmt.Errorf("failed to query mortgage: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrMortgageNotFound, id)
	}
	return m, nil
}

// Get loads the mortgage and its payment ledger and derives the balance
// from the principal parts only.
func (s *mortgageService) Get(ctx context.Context, accountID, id uuid.UUID) (*MortgageDetails, error) {
	m, err := s.find(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.Payments(ctx, m.ID)
	if err != nil {
		s.log.Error("Failed to query mortgage payments", err, map[string]interface{}{
			"mortgage_id": id,
		})
		return nil, fmt.Errorf("failed to query mortgage payments: %w", err)
	}

	// Interest does not reduce the balance
	principals := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		principals[i] = p.Principal
	}
	remaining := finance.RemainingBalance(m.LoanAmount, principals)

	return &MortgageDetails{
		Mortgage:         *m,
		Payments:         payments,
		PrincipalPaid:    m.LoanAmount.Sub(remaining),
		RemainingBalance: remaining,
	}, nil
}

// ListByProperty checks ownership before listing.
func (s *mortgageService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error) {
	if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
		return nil, err
	}

	mortgages, err := s.repo.ListByProperty(ctx, accountID, propertyID)
	if err != nil {
		s.log.Error("Failed to list mortgages", err, map[string]interface{}{
			"account_id":  accountID,
			"property_id": propertyID,
		})
		return nil, fmt.Errorf("failed to list mortgages: %w", err)
	}
	return mortgages, nil
}

// Delete removes a mortgage after confirming the account can see it.
// Payments go with it through the foreign key cascade.
func (s *mortgageService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, accountID, id); err != nil {
			return err
		}
		ok, err := s.repo.Delete(ctx, accountID, id)
		if err != nil {
			return fmt.Errorf("failed to delete mortgage: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrMortgageNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Mortgage deleted", map[string]interface{}{
		"account_id":  accountID,
		"mortgage_id": id,
	})
	return nil
}

// AddPayment validates the payment, then checks the mortgage and inserts in
// one transaction.
func (s *mortgageService) AddPayment(ctx context.Context, accountID, mortgageID uuid.UUID, p *models.MortgagePayment) (*models.MortgagePayment, error) {
	if err := validatePayment(p); err != nil {
		return nil, err
	}
	p.MortgageID = mortgageID

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, accountID, mortgageID); err != nil {
			return err
		}
		if err := s.repo.AddPayment(ctx, p); err != nil {
			return fmt.Errorf("failed to record mortgage payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Mortgage payment recorded", map[string]interface{}{
		"account_id":  accountID,
		"mortgage_id": mortgageID,
		"principal":   p.Principal.String(),
	})
	return p, nil
}
