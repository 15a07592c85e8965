package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// ValuationService defines the interface for valuation business logic operations.
type ValuationService interface {
	// Create records a valuation. A missing type defaults to MARKET.
	// Returns ErrInvalidInput for a missing date, an unknown type, or a
	// value that is not positive or does not fit the amount column.
	// Returns ErrPropertyNotFound if the account does not own the property.
	Create(ctx context.Context, accountID uuid.UUID, v *models.Valuation) (*models.Valuation, error)

	// ListByProperty returns the property's valuations, newest first.
	// Returns ErrPropertyNotFound if the account does not own the property.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error)

	// Latest returns nil, nil when the property has no valuation yet.
	// Returns ErrPropertyNotFound if the account does not own the property.
	Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error)
}

// valuationService is the concrete implementation of ValuationService.
type valuationService struct {
	repo       repository.ValuationRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewValuationService creates a new instance of ValuationService.
func NewValuationService(repo repository.ValuationRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) ValuationService {
	return &valuationService{
		repo:       repo,
		properties: properties,
		tx:         tx,
		log:        log,
	}
}

// Create validates the valuation, then checks the property and inserts in
// one transaction.
func (s *valuationService) Create(ctx context.Context, accountID uuid.UUID, v *models.Valuation) (*models.Valuation, error) {
	v.AccountID = accountID
	if v.PropertyID == uuid.Nil {
		return nil, invalid("propertyId is required")
	}
	if v.ValuationDate.IsZero() {
		return nil, invalid("valuationDate is required")
	}
	if err := requirePositive("estimatedValue", v.EstimatedValue); err != nil {
		return nil, err
	}
	if err := requireMoney("estimatedValue", v.EstimatedValue, amountPrecision); err != nil {
		return nil, err
	}
	// Default the type
	if v.Type == "" {
		v.Type = models.ValuationMarket
	}
	if !v.Type.Valid() {
		return nil, invalid("unknown valuation type %q", v.Type)
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, v.PropertyID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, v); err != nil {
			return fmt.Errorf("failed to create valuation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Valuation recorded", map[string]interface{}{
		"account_id":   accountID,
		"property_id":  v.PropertyID,
		"valuation_id": v.ID,
	})
	return v, nil
}

// ListByProperty checks ownership before listing.
func (s *valuationService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error) {
	if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
		return nil, err
	}
	valuations, err := s.repo.ListByProperty(ctx, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return valuations, nil
}

// Latest checks ownership, then returns the most recent valuation if any.
func (s *valuationService) Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error) {
	if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
		return nil, err
	}
	v, err := s.repo.Latest(ctx, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest valuation: %w", err)
	}
	return v, nil
}
