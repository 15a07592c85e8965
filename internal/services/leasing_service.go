package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// ErrUnitExists is returned when a unit number is reused within a property.
var ErrUnitExists = errors.New("unit number already exists on property")

// UnitService defines the interface for unit business logic operations.
type UnitService interface {
	// Create adds a unit to one of the account's properties.
	// Returns ErrInvalidInput for a missing unit number or bad room count.
	// Returns ErrPropertyNotFound if the account does not own the property.
	// Returns ErrUnitExists if the number is taken on that property.
	Create(ctx context.Context, accountID uuid.UUID, u *models.Unit) (*models.Unit, error)

	// ListByProperty returns the property's units ordered by number.
	// Returns ErrPropertyNotFound if the account does not own the property.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error)
}

// TenantService defines the interface for tenant business logic operations.
type TenantService interface {
	// Create stores a tenant. Returns ErrInvalidInput for a blank name.
	Create(ctx context.Context, accountID uuid.UUID, t *models.Tenant) (*models.Tenant, error)

	// List pages through the account's tenants by name.
	List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error)
}

// LeaseService defines the interface for lease business logic operations.
type LeaseService interface {
	// Create records a lease between a unit and a tenant.
	// Returns ErrInvalidInput for an end date before the start date, a
	// rent that is not positive, or an unknown status.
	// Returns ErrUnitNotFound or ErrTenantNotFound if the account does not
	// own the unit or tenant.
	Create(ctx context.Context, accountID uuid.UUID, l *models.Lease) (*models.Lease, error)

	// List pages through the account's leases, optionally for one unit.
	List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error)
}

// unitService is the concrete implementation of UnitService.
type unitService struct {
	repo       repository.UnitRepository
	properties repository.PropertyRepository
	tx         Transactor
	log        *logger.Logger
}

// NewUnitService creates a new instance of UnitService.
func NewUnitService(repo repository.UnitRepository, properties repository.PropertyRepository, tx Transactor, log *logger.Logger) UnitService {
	return &unitService{repo: repo, properties: properties, tx: tx, log: log}
}

// Create validates the unit and inserts it under the property's lock.
func (s *unitService) Create(ctx context.Context, accountID uuid.UUID, u *models.Unit) (*models.Unit, error) {
	u.AccountID = accountID
	u.UnitNumber = strings.TrimSpace(u.UnitNumber)
	if u.PropertyID == uuid.Nil {
		return nil, invalid("propertyId is required")
	}
	if u.UnitNumber == "" {
		return nil, invalid("unitNumber is required")
	}
	// Rooms are optional and stored with one decimal
	if u.Rooms != nil {
		if err := requirePositive("rooms", *u.Rooms); err != nil {
			return nil, err
		}
		if err := requireFits("rooms", *u.Rooms, 4, 1); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := requireProperty(ctx, s.properties, s.log, accountID, u.PropertyID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrUnitExists, u.UnitNumber)
			}
			return fmt.Errorf("failed to create unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Unit created", map[string]interface{}{
		"account_id":  accountID,
		"property_id": u.PropertyID,
		"unit_id":     u.ID,
	})
	return u, nil
}

// ListByProperty checks ownership before listing so a foreign property is
// a 404 rather than an empty list.
func (s *unitService) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error) {
	if err := requireProperty(ctx, s.properties, s.log, accountID, propertyID); err != nil {
		return nil, err
	}
	units, err := s.repo.ListByProperty(ctx, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

// tenantService is the concrete implementation of TenantService.
type tenantService struct {
	repo repository.TenantRepository
	log  *logger.Logger
}

// NewTenantService creates a new instance of TenantService.
func NewTenantService(repo repository.TenantRepository, log *logger.Logger) TenantService {
	return &tenantService{repo: repo, log: log}
}

// Create trims and requires the tenant name.
func (s *tenantService) Create(ctx context.Context, accountID uuid.UUID, t *models.Tenant) (*models.Tenant, error) {
	t.AccountID = accountID
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, invalid("name is required")
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.log.Error("Failed to create tenant", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return t, nil
}

// List delegates to the repository.
func (s *tenantService) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error) {
	tenants, err := s.repo.List(ctx, accountID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// leaseService is the concrete implementation of LeaseService.
type leaseService struct {
	repo    repository.LeaseRepository
	units   repository.UnitRepository
	tenants repository.TenantRepository
	tx      Transactor
	log     *logger.Logger
}

// NewLeaseService creates a new instance of LeaseService.
func NewLeaseService(repo repository.LeaseRepository, units repository.UnitRepository, tenants repository.TenantRepository, tx Transactor, log *logger.Logger) LeaseService {
	return &leaseService{repo: repo, units: units, tenants: tenants, tx: tx, log: log}
}

// validateLease defaults a missing status to ACTIVE.
func validateLease(l *models.Lease) error {
	if l.UnitID == uuid.Nil || l.TenantID == uuid.Nil {
		return invalid("unitId and tenantId are required")
	}
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return invalid("startDate and endDate are required")
	}
	if l.EndDate.Before(l.StartDate) {
		return invalid("endDate must not be before startDate")
	}
	if err := requirePositive("monthlyRent", l.MonthlyRent); err != nil {
		return err
	}
	if err := requireMoney("monthlyRent", l.MonthlyRent, paymentPrecision); err != nil {
		return err
	}
	if l.Status == "" {
		l.Status = models.LeaseActive
	}
	if !l.Status.Valid() {
		return invalid("unknown lease status %q", l.Status)
	}
	return nil
}

// Create validates the lease, then resolves the unit and tenant within the
// account before inserting.
func (s *leaseService) Create(ctx context.Context, accountID uuid.UUID, l *models.Lease) (*models.Lease, error) {
	l.AccountID = accountID
	if err := validateLease(l); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		// Both sides of the lease must belong to the account
		unit, err := s.units.FindByID(ctx, accountID, l.UnitID)
		if err != nil {
			return fmt.Errorf("failed to query unit: %w", err)
		}
		if unit == nil {
			return fmt.Errorf("%w: %s", ErrUnitNotFound, l.UnitID)
		}

		tenant, err := s.tenants.FindByID(ctx, accountID, l.TenantID)
		if err != nil {
			return fmt.Errorf("failed to query tenant: %w", err)
		}
		if tenant == nil {
			return fmt.Errorf("%w: %s", ErrTenantNotFound, l.TenantID)
		}

		if err := s.repo.Create(ctx, l); err != nil {
			return fmt.Errorf("failed to create lease: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Lease created", map[string]interface{}{
		"account_id": accountID,
		"lease_id":   l.ID,
		"unit_id":    l.UnitID,
	})
	return l, nil
}

// List delegates to the repository.
func (s *leaseService) List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error) {
	leases, err := s.repo.List(ctx, accountID, unitID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return leases, nil
}
