package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// PropertyService defines the interface for property business logic operations.
type PropertyService interface {
	// Create validates and stores a new property for the account.
	// Returns ErrInvalidInput for a blank address, an unknown type, or a
	// value or price that is negative or does not fit the amount column.
	// Returns error for database failures.
	Create(ctx context.Context, accountID uuid.UUID, p *models.Property) (*models.Property, error)

	// Get returns ErrPropertyNotFound if the property is absent or foreign.
	Get(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error)

	// List filters by a case-insensitive address or city search and type.
	// Returns ErrInvalidInput for an unknown type filter.
	// Returns an empty slice, not an error, when nothing matches.
	List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error)

	// Update applies a partial patch after re-validating the result.
	// Returns ErrPropertyNotFound or ErrInvalidInput as Get and Create do.
	Update(ctx context.Context, accountID, id uuid.UUID, patch models.PropertyPatch) (*models.Property, error)

	// Delete removes the property with its units, leases, records and
	// valuations. Returns ErrPropertyNotFound if it is absent or foreign.
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	repo repository.PropertyRepository
	tx   Transactor
	log  *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.PropertyRepository, tx Transactor, log *logger.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		tx:   tx,
		log:  log,
	}
}

// validateProperty checks required fields and the optional money columns.
func validateProperty(p *models.Property) error {
	if strings.TrimSpace(p.Address) == "" {
		return invalid("address is required")
	}
	if !p.Type.Valid() {
		return invalid("unknown property type %q", p.Type)
	}
	if p.EstimatedValue != nil {
		if err := requireNonNegative("estimatedValue", *p.EstimatedValue); err != nil {
			return err
		}
		if err := requireMoney("estimatedValue", *p.EstimatedValue, amountPrecision); err != nil {
			return err
		}
	}
	if p.AcquisitionPrice != nil {
		if err := requireNonNegative("acquisitionPrice", *p.AcquisitionPrice); err != nil {
			return err
		}
		if err := requireMoney("acquisitionPrice", *p.AcquisitionPrice, amountPrecision); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and inserts a property.
func (s *propertyService) Create(ctx context.Context, accountID uuid.UUID, p *models.Property) (*models.Property, error) {
	p.AccountID = accountID
	if err := validateProperty(p); err != nil {
		s.log.Warn("Rejected property", map[string]interface{}{
			"account_id": accountID,
			"reason":     err.Error(),
		})
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("Failed to create property", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Property created", map[string]interface{}{
		"account_id":  accountID,
		"property_id": p.ID,
	})
	return p, nil
}

// Get retrieves a property and maps a missing row to ErrPropertyNotFound.
func (s *propertyService) Get(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error) {
	p, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		s.log.Error("Failed to query property", err, map[string]interface{}{
			"account_id":  accountID,
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return p, nil
}

// List validates the type filter, trims the search and delegates to the
// repository.
func (s *propertyService) List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error) {
	// Validate type filter
	if q.Type != "" && !q.Type.Valid() {
		return nil, invalid("unknown property type %q", q.Type)
	}
	q.Search = strings.TrimSpace(q.Search)

	properties, err := s.repo.List(ctx, accountID, q)
	if err != nil {
		s.log.Error("Failed to list properties", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	s.log.Debug("Properties listed", map[string]interface{}{
		"account_id": accountID,
		"count":      len(properties),
	})
	return properties, nil
}

// Update loads, patches, re-validates and saves under one transaction.
func (s *propertyService) Update(ctx context.Context, accountID, id uuid.UUID, patch models.PropertyPatch) (*models.Property, error) {
	var updated *models.Property
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.Get(ctx, accountID, id)
		if err != nil {
			return err
		}

		patch.Apply(p)
		if err := validateProperty(p); err != nil {
			return err
		}

		ok, err := s.repo.Update(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Property updated", map[string]interface{}{
		"account_id":  accountID,
		"property_id": id,
	})
	return updated, nil
}

// Delete locks the property row, then removes it. Dependent rows go through
// the foreign key cascades.
func (s *propertyService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.repo, s.log, accountID, id); err != nil {
			return err
		}
		ok, err := s.repo.Delete(ctx, accountID, id)
		if err != nil {
			s.log.Error("Failed to delete property", err, map[string]interface{}{
				"account_id":  accountID,
				"property_id": id,
			})
			return fmt.Errorf("failed to delete property: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Property deleted", map[string]interface{}{
		"account_id":  accountID,
		"property_id": id,
	})
	return nil
}
