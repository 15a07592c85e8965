// Package services holds the business rules of the rent management API.
//
// Every method takes the requesting account explicitly after ctx. Validation
// runs before any write, and each "verify ownership, then mutate" sequence
// runs inside a single transaction.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// Service-level errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPropertyNotFound = errors.New("property not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrIncomeNotFound   = errors.New("income not found")
	ErrMortgageNotFound = errors.New("mortgage not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrOwnershipExists  = errors.New("owner already assigned to property")
)

// Transactor runs fn inside one database transaction carried by ctx.
// *database.Database implements it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// invalid builds an ErrInvalidInput with a field-level message.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// requirePositive rejects zero and negative values.
func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid("%s must be greater than 0", field)
	}
	return nil
}

// requireNonNegative rejects negative values.
func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid("%s must not be negative", field)
	}
	return nil
}

// Precision of the NUMERIC(p, 2) columns money is stored in.
const (
	amountPrecision  = 14 // amounts, values, loan amounts
	paymentPrecision = 12 // payments, rent, installments
)

// requireMoney rejects amounts a NUMERIC(precision, 2) column cannot hold
// exactly.
func requireMoney(field string, v decimal.Decimal, precision int32) error {
	return requireFits(field, v, precision, 2)
}

// requireFits rejects v when it has more than scale decimals or more integer
// digits than NUMERIC(precision, scale) allows.
func requireFits(field string, v decimal.Decimal, precision, scale int32) error {
	if !v.Equal(v.Truncate(scale)) {
		return invalid("%s must have at most %d decimal places", field, scale)
	}
	limit := decimal.New(1, precision-scale)
	if v.Abs().GreaterThanOrEqual(limit) {
		return invalid("%s must be less than %s", field, limit.String())
	}
	return nil
}

// requireProperty fails with ErrPropertyNotFound unless the property exists
// and belongs to the account. Inside a transaction it also locks the row.
func requireProperty(ctx context.Context, repo repository.PropertyRepository, log *logger.Logger, accountID, propertyID uuid.UUID) error {
	owned, err := repo.Owned(ctx, accountID, propertyID)
	if err != nil {
		log.Error("Failed to verify property ownership", err, map[string]interface{}{
			"account_id":  accountID,
			"property_id": propertyID,
		})
		return fmt.Errorf("failed to verify property: %w", err)
	}
	if !owned {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	return nil
}
