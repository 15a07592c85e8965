package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// OwnerService defines the interface for owner business logic operations.
type OwnerService interface {
	// Create stores an owner. Returns ErrInvalidInput for a blank name.
	Create(ctx context.Context, accountID uuid.UUID, o *models.Owner) (*models.Owner, error)

	// List pages through the account's owners by name.
	List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error)

	// AssignToProperty records an owner's share of a property. The share must
	// lie in (0, 100]. Assigning the same owner twice returns ErrOwnershipExists.
	// Returns ErrPropertyNotFound or ErrOwnerNotFound for a property or
	// owner outside the account.
	AssignToProperty(ctx context.Context, accountID, propertyID, ownerID uuid.UUID, share decimal.Decimal) (*models.PropertyOwnership, error)

	// ListByProperty returns the share records of a property the account owns.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error)
}

// ownerService is the concrete implementation of OwnerService.
type ownerService struct {
	repo       repository.OwnerRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewOwnerService creates a new instance of OwnerService.
func NewOwnerService(repo repository.OwnerRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) OwnerService {
	return &ownerService{
		repo:       repo,
		properties: properties,
		tx:         tx,
		log:        log,
	}
}

// Create trims and requires the owner name.
func (s *ownerService) Create(ctx context.Context, accountID uuid.UUID, o *models.Owner) (*models.Owner, error) {
	o.AccountID = accountID
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return nil, invalid("name is required")
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error("Failed to create owner", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}
	return o, nil
}

// List delegates to the repository.
func (s *ownerService) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error) {
	owners, err := s.repo.List(ctx, accountID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

// AssignToProperty validates the share, then resolves the property and owner
// and inserts the link in one transaction. The unique constraint on
// (property, owner) turns a repeat into ErrOwnershipExists.
func (s *ownerService) AssignToProperty(ctx context.Context, accountID, propertyID, ownerID uuid.UUID, share decimal.Decimal) (*models.PropertyOwnership, error) {
	// Validate share range
	if !share.IsPositive() || share.GreaterThan(hundred) {
		return nil, invalid("sharePercent must be greater than 0 and at most 100, got %s", share)
	}
	if err := requireFits("sharePercent", share, 5, 2); err != nil {
		return nil, err
	}

	po := &models.PropertyOwnership{
		AccountID:    accountID,
		PropertyID:   propertyID,
		OwnerID:      ownerID,
		SharePercent: share,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
			return err
		}

		owner, err := s.repo.FindByID(ctx, accountID, ownerID)
		if err != nil {
			return fmt.Errorf("failed to query owner: %w", err)
		}
		if owner == nil {
			return fmt.Errorf("%w: %s", ErrOwnerNotFound, ownerID)
		}

		if err := s.repo.AddOwnership(ctx, po); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: owner %s", ErrOwnershipExists, ownerID)
			}
			return fmt.Errorf("failed to assign owner: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Owner assignment failed", map[string]interface{}{
			"account_id":  accountID,
			"property_id": propertyID,
			"owner_id":    ownerID,
			"reason":      err.Error(),
		})
		return nil, err
	}

	s.log.Info("Owner assigned to property", map[string]interface{}{
		"account_id":  accountID,
		"property_id": propertyID,
		"owner_id":    ownerID,
	})
	return po, nil
}

// ListByProperty checks ownership of the property before listing shares.
func (s *ownerService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error) {
	if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
		return nil, err
	}
	shares, err := s.repo.Ownerships(ctx, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list property owners: %w", err)
	}
	return shares, nil
}
