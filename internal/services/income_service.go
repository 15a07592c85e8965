package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// IncomeService defines the interface for income business logic operations.
type IncomeService interface {
	// Create records income against one of the account's properties.
	// Returns ErrInvalidInput for a missing date, an unknown type, or an
	// amount that is not positive or does not fit the amount column.
	// Returns ErrPropertyNotFound if the account does not own the property.
	Create(ctx context.Context, accountID uuid.UUID, in *models.Income) (*models.Income, error)

	// Get retrieves one income record.
	// Returns ErrIncomeNotFound if it is absent or belongs to another account.
	Get(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error)

	// List returns the account's income matching q.
	// Returns ErrInvalidInput for an unknown type filter.
	List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error)

	// Update applies a partial patch. A changed property is re-verified.
	Update(ctx context.Context, accountID, id uuid.UUID, patch models.IncomePatch) (*models.Income, error)

	// Delete removes one income record.
	// Returns ErrIncomeNotFound if it is absent or belongs to another account.
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

// incomeService is the concrete implementation of IncomeService.
type incomeService struct {
	repo       repository.IncomeRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewIncomeService creates a new instance of IncomeService.
func NewIncomeService(repo repository.IncomeRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) IncomeService {
	return &incomeService{
		repo:       repo,
		properties: properties,
		tx:         tx,
		log:        log,
	}
}

// validateIncome mirrors validateExpense for income records.
func validateIncome(in *models.Income) error {
	if in.PropertyID == uuid.Nil {
		return invalid("propertyId is required")
	}
	if in.Date.IsZero() {
		return invalid("incomeDate is required")
	}
	if err := requirePositive("amount", in.Amount); err != nil {
		return err
	}
	if err := requireMoney("amount", in.Amount, amountPrecision); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return invalid("unknown income type %q", in.Type)
	}
	return nil
}

// Create validates, then checks the property and inserts in one transaction.
func (s *incomeService) Create(ctx context.Context, accountID uuid.UUID, in *models.Income) (*models.Income, error) {
	in.AccountID = accountID
	if err := validateIncome(in); err != nil {
		s.log.Warn("Rejected income", map[string]interface{}{
			"account_id": accountID,
			"reason":     err.Error(),
		})
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, in.PropertyID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, in); err != nil {
			return fmt.Errorf("failed to create income: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Income created", map[string]interface{}{
		"account_id":  accountID,
		"income_id":  in.ID,
		"property_id": in.PropertyID,
		"amount":      in.Amount.String(),
	})
	return in, nil
}

// Get retrieves an income record.
func (s *incomeService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error) {
	in, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		s.log.Error("Failed to query income", err, map[string]interface{}{
			"account_id": accountID,
			"income_id": id,
		})
		return nil, fmt.Errorf("failed to query income: %w", err)
	}
	if in == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncomeNotFound, id)
	}
	return in, nil
}

// List validates the type filter and delegates to the repository.
func (s *incomeService) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error) {
	if q.Type != "" && !models.IncomeType(q.Type).Valid() {
		return nil, invalid("unknown income type %q", q.Type)
	}

	incomes, err := s.repo.List(ctx, accountID, q)
	if err != nil {
		s.log.Error("Failed to list income", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	return incomes, nil
}

// Update loads, patches, re-validates and saves under one transaction.
func (s *incomeService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.IncomePatch) (*models.Income, error) {
	var updated *models.Income
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		in, err := s.Get(ctx, accountID, id)
		if err != nil {
			return err
		}

		// Re-verify ownership only when the property changes
		moved := patch.PropertyID != nil && *patch.PropertyID != in.PropertyID
		patch.Apply(in)
		if err := validateIncome(in); err != nil {
			return err
		}
		if moved {
			if err := requireProperty(ctx, s.properties, s.log, accountID, in.PropertyID); err != nil {
				return err
			}
		}

		ok, err := s.repo.Update(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to update income: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrIncomeNotFound, id)
		}
		updated = in
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Income updated", map[string]interface{}{
		"account_id": accountID,
		"income_id": id,
	})
	return updated, nil
}

// Delete removes an income record.
func (s *incomeService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, accountID, id); err != nil {
			return err
		}
		ok, err := s.repo.Delete(ctx, accountID, id)
		if err != nil {
			return fmt.Errorf("failed to delete income: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrIncomeNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Income deleted", map[string]interface{}{
		"account_id": accountID,
		"income_id": id,
	})
	return nil
}
