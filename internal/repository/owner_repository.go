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

// OwnerRepository defines the interface for owner and ownership data access.
type OwnerRepository interface {
	// Create inserts o and fills its id and timestamps.
	Create(ctx context.Context, o *models.Owner) error

	// FindByID returns nil, nil if the owner is absent or not the account's.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Owner, error)

	// List returns the account's owners ordered by name.
	List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error)

	// AddOwnership links an owner to a property. A second link for the same
	// pair yields ErrDuplicate.
	AddOwnership(ctx context.Context, po *models.PropertyOwnership) error

	// Ownerships lists the share records of a property.
	Ownerships(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error)
}

// ownerRepository is the concrete implementation of OwnerRepository.
type ownerRepository struct {
	db *database.Database
}

// NewOwnerRepository creates a new instance of OwnerRepository.
func NewOwnerRepository(db *database.Database) OwnerRepository {
	return &ownerRepository{db: db}
}

const ownerColumns = `id, account_id, name, email, phone, created_at, updated_at`

// scanOwner reads one row selected with ownerColumns.
func scanOwner(row pgx.Row) (*models.Owner, error) {
	var o models.Owner
	if err := row.Scan(&o.ID, &o.AccountID, &o.Name, &o.Email, &o.Phone, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an owner.
func (r *ownerRepository) Create(ctx context.Context, o *models.Owner) error {
	query := `
		INSERT INTO owners (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query, o.AccountID, o.Name, o.Email, o.Phone).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert owner: %w", err)
	}
	return nil
}

// FindByID takes a share lock inside a transaction.
func (r *ownerRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE id = $1 AND account_id = $2`
	if database.InTx(ctx) {
		query += ` FOR SHARE`
	}

	o, err := scanOwner(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query owner %s: %w", id, err)
	}
	return o, nil
}

// List pages through owners by name.
func (r *ownerRepository) List(ctx context.Context, accountID uuid.UUID, page models.Page) ([]models.Owner, error) {
	w := newWhere("account_id", accountID)
	query := `SELECT ` + ownerColumns + ` FROM owners ` + w.String() + ` ORDER BY name, id ` + w.page(page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	results := []models.Owner{}
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner row: %w", err)
		}
		results = append(results, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owner rows: %w", err)
	}
	return results, nil
}

// AddOwnership maps the (property, owner) unique violation to ErrDuplicate.
func (r *ownerRepository) AddOwnership(ctx context.Context, po *models.PropertyOwnership) error {
	query := `
		INSERT INTO property_owners (account_id, property_id, owner_id, share_percent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		po.AccountID, po.PropertyID, po.OwnerID, po.SharePercent,
	).Scan(&po.ID, &po.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("owner %s on property %s: %w", po.OwnerID, po.PropertyID, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert property ownership: %w", err)
	}
	return nil
}

// Ownerships lists a property's share records.
func (r *ownerRepository) Ownerships(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.PropertyOwnership, error) {
	query := `
		SELECT id, account_id, property_id, owner_id, share_percent, created_at
		FROM property_owners
		WHERE account_id = $1 AND property_id = $2
		ORDER BY share_percent DESC, created_at`

	rows, err := r.db.Conn(ctx).Query(ctx, query, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list property owners: %w", err)
	}
	defer rows.Close()

	results := []models.PropertyOwnership{}
	for rows.Next() {
		var po models.PropertyOwnership
		if err := rows.Scan(&po.ID, &po.AccountID, &po.PropertyID, &po.OwnerID, &po.SharePercent, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property owner row: %w", err)
		}
		results = append(results, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property owner rows: %w", err)
	}
	return results, nil
}
