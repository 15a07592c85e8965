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

// UnitRepository defines the interface for unit data access.
type UnitRepository interface {
	// Create inserts u. A repeated unit number within the property yields ErrDuplicate.
	Create(ctx context.Context, u *models.Unit) error

	// FindByID returns nil, nil if the unit is absent or not the account's.
	// Inside a transaction the row stays locked against deletion until commit.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Unit, error)

	// ListByProperty returns a property's units ordered by unit number.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error)

	// Occupancy counts the account's units and those with an ACTIVE lease
	// covering today's date.
	Occupancy(ctx context.Context, accountID uuid.UUID) (models.OccupancyCounts, error)
}

// unitRepository is the concrete implementation of UnitRepository.
type unitRepository struct {
	db *database.Database
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *database.Database) UnitRepository {
	return &unitRepository{db: db}
}

const unitColumns = `id, account_id, property_id, unit_number, floor, rooms, created_at, updated_at`

// scanUnit reads one row selected with unitColumns.
func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(&u.ID, &u.AccountID, &u.PropertyID, &u.UnitNumber, &u.Floor, &u.Rooms, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create maps the per-property unit number constraint to ErrDuplicate.
func (r *unitRepository) Create(ctx context.Context, u *models.Unit) error {
	query := `
		INSERT INTO units (account_id, property_id, unit_number, floor, rooms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		u.AccountID, u.PropertyID, u.UnitNumber, u.Floor, u.Rooms,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("unit %q: %w", u.UnitNumber, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}

// FindByID takes a share lock inside a transaction so a lease cannot
// reference a unit that is being deleted.
func (r *unitRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1 AND account_id = $2`
	if database.InTx(ctx) {
		query += ` FOR SHARE`
	}

	u, err := scanUnit(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query unit %s: %w", id, err)
	}
	return u, nil
}

// ListByProperty lists the property's units.
func (r *unitRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units
		WHERE account_id = $1 AND property_id = $2
		ORDER BY unit_number`

	rows, err := r.db.Conn(ctx).Query(ctx, query, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	results := []models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		results = append(results, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}
	return results, nil
}

// Occupancy counts in one pass with a filtered aggregate.
func (r *unitRepository) Occupancy(ctx context.Context, accountID uuid.UUID) (models.OccupancyCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM leases l
				WHERE l.unit_id = u.id
				  AND l.status = $2
				  AND CURRENT_DATE BETWEEN l.start_date AND l.end_date
			))
		FROM units u
		WHERE u.account_id = $1`

	var counts models.OccupancyCounts
	err := r.db.Conn(ctx).QueryRow(ctx, query, accountID, models.LeaseActive).
		Scan(&counts.TotalUnits, &counts.OccupiedUnits)
	if err != nil {
		return models.OccupancyCounts{}, fmt.Errorf("failed to count occupancy: %w", err)
	}
	return counts, nil
}
