package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/natovichat/rent-management-app/api/internal/database"
	"github.com/natovichat/rent-management-app/api/internal/models"
)

// TenantRepository defines the interface for tenant data access.
type TenantRepository interface {
	// Create inserts t and fills its id and timestamps.
	Create(ctx context.Context, t *models.Tenant) error

	// FindByID returns nil, nil if the tenant is absent or not the account's.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Tenant, error)

	// List returns the account's tenants ordered by name.
	List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error)
}

// LeaseRepository defines the interface for lease data access.
type LeaseRepository interface {
	// Create inserts l and fills its id and timestamps.
	Create(ctx context.Context, l *models.Lease) error

	// List returns the account's leases, most recent start first. A non-nil
	// unitID narrows the listing to that unit.
	List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error)
}

// tenantRepository is the concrete implementation of TenantRepository.
type tenantRepository struct {
	db *database.Database
}

// NewTenantRepository creates a new instance of TenantRepository.
func NewTenantRepository(db *database.Database) TenantRepository {
	return &tenantRepository{db: db}
}

const tenantColumns = `id, account_id, name, email, phone, created_at, updated_at`

// scanTenant reads one row selected with tenantColumns.
func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(&t.ID, &t.AccountID, &t.Name, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a tenant.
func (r *tenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	query := `
		INSERT INTO tenants (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query, t.AccountID, t.Name, t.Email, t.Phone).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

// FindByID takes a share lock inside a transaction so a lease
// cannot reference a tenant that is being deleted.
func (r *tenantRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 AND account_id = $2`
	if database.InTx(ctx) {
		query += ` FOR SHARE`
	}

	t, err := scanTenant(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tenant %s: %w", id, err)
	}
	return t, nil
}

// List pages through tenants by name.
func (r *tenantRepository) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Tenant, error) {
	w := newWhere("account_id", accountID)
	query := `SELECT ` + tenantColumns + ` FROM tenants ` + w.String() + ` ORDER BY name, id ` + w.page(page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	results := []models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		results = append(results, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return results, nil
}

// leaseRepository is the concrete implementation of LeaseRepository.
type leaseRepository struct {
	db *database.Database
}

// NewLeaseRepository creates a new instance of LeaseRepository.
func NewLeaseRepository(db *database.Database) LeaseRepository {
	return &leaseRepository{db: db}
}

const leaseColumns = `
	id, account_id, unit_id, tenant_id, start_date, end_date, monthly_rent, status,
	created_at, updated_at`

// Create inserts a lease and scans back the generated columns.
func (r *leaseRepository) Create(ctx context.Context, l *models.Lease) error {
	query := `
		INSERT INTO leases (account_id, unit_id, tenant_id, start_date, end_date, monthly_rent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		l.AccountID, l.UnitID, l.TenantID, l.StartDate, l.EndDate, l.MonthlyRent, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lease: %w", err)
	}
	return nil
}

// List pages through leases, newest start first.
func (r *leaseRepository) List(ctx context.Context, accountID uuid.UUID, unitID *uuid.UUID, page models.Page) ([]models.Lease, error) {
	w := newWhere("account_id", accountID)
	if unitID != nil {
		w.add("unit_id = $%d", *unitID)
	}
	query := `SELECT ` + leaseColumns + ` FROM leases ` + w.String() +
		` ORDER BY start_date DESC, id ` + w.page(page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	results := []models.Lease{}
	for rows.Next() {
		var l models.Lease
		err := rows.Scan(
			&l.ID, &l.AccountID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate,
			&l.MonthlyRent, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lease row: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lease rows: %w", err)
	}
	return results, nil
}
