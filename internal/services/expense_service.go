package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// ExpenseService defines the interface for expense business logic operations.
type ExpenseService interface {
	// Create records an expense against one of the account's properties.
	// Returns ErrInvalidInput for a missing date, an unknown type, or an
	// amount that is not positive or does not fit the amount column.
	// Returns ErrPropertyNotFound if the account does not own the property.
	// Returns error for database failures.
	Create(ctx context.Context, accountID uuid.UUID, e *models.Expense) (*models.Expense, error)

	// Get retrieves one expense.
	// Returns ErrExpenseNotFound if it is absent or belongs to another account.
	// Returns error for database failures.
	Get(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error)

	// List returns the account's expenses matching q, newest first.
	// Returns ErrInvalidInput for an unknown type filter.
	// Returns empty slice if nothing matches (not an error).
	List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error)

	// Update applies a partial patch. A changed property is re-verified.
	// Returns ErrExpenseNotFound, ErrPropertyNotFound or ErrInvalidInput
	// under the same rules as Get and Create.
	Update(ctx context.Context, accountID, id uuid.UUID, patch models.ExpensePatch) (*models.Expense, error)

	// Delete removes one expense.
	// Returns ErrExpenseNotFound if it is absent or belongs to another account.
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

// expenseService is the concrete implementation of ExpenseService.
type expenseService struct {
	repo       repository.ExpenseRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(repo repository.ExpenseRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) ExpenseService {
	return &expenseService{
		repo:       repo,
		properties: properties,
		tx:         tx,
		log:        log,
	}
}

// validateExpense checks the fields storage cannot check for us.
func validateExpense(e *models.Expense) error {
	if e.PropertyID == uuid.Nil {
		return invalid("propertyId is required")
	}
	if e.Date.IsZero() {
		return invalid("expenseDate is required")
	}
	if err := requirePositive("amount", e.Amount); err != nil {
		return err
	}
	if err := requireMoney("amount", e.Amount, amountPrecision); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return invalid("unknown expense type %q", e.Type)
	}
	return nil
}

// Create validates the expense, then verifies ownership of the property and
// inserts in one transaction so the property cannot vanish in between.
func (s *expenseService) Create(ctx context.Context, accountID uuid.UUID, e *models.Expense) (*models.Expense, error) {
	e.AccountID = accountID
	if err := validateExpense(e); err != nil {
		s.log.Warn("Rejected expense", map[string]interface{}{
			"account_id": accountID,
			"reason":     err.Error(),
		})
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, e.PropertyID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Expense created", map[string]interface{}{
		"account_id":  accountID,
		"expense_id":  e.ID,
		"property_id": e.PropertyID,
		"amount":      e.Amount.String(),
	})
	return e, nil
}

// Get retrieves an expense and maps a missing row to ErrExpenseNotFound.
func (s *expenseService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error) {
	e, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		s.log.Error("Failed to query expense", err, map[string]interface{}{
			"account_id": accountID,
			"expense_id": id,
		})
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	return e, nil
}

// List validates the type filter and delegates to the repository.
func (s *expenseService) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error) {
	// Validate type filter
	if q.Type != "" && !models.ExpenseType(q.Type).Valid() {
		return nil, invalid("unknown expense type %q", q.Type)
	}

	expenses, err := s.repo.List(ctx, accountID, q)
	if err != nil {
		s.log.Error("Failed to list expenses", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Update loads the expense, applies the patch and re-validates the result
// before saving, all under one transaction.
func (s *expenseService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.ExpensePatch) (*models.Expense, error) {
	var updated *models.Expense
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		e, err := s.Get(ctx, accountID, id)
		if err != nil {
			return err
		}

		// Only a moved expense needs the new property checked
		moved := patch.PropertyID != nil && *patch.PropertyID != e.PropertyID
		patch.Apply(e)
		if err := validateExpense(e); err != nil {
			return err
		}
		if moved {
			if err := requireProperty(ctx, s.properties, s.log, accountID, e.PropertyID); err != nil {
				return err
			}
		}

		ok, err := s.repo.Update(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Expense updated", map[string]interface{}{
		"account_id": accountID,
		"expense_id": id,
	})
	return updated, nil
}

// Delete removes an expense after confirming the account can see it.
func (s *expenseService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, accountID, id); err != nil {
			return err
		}
		ok, err := s.repo.Delete(ctx, accountID, id)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Expense deleted", map[string]interface{}{
		"account_id": accountID,
		"expense_id": id,
	})
	return nil
}
