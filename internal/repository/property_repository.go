package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/database"
	"github.com/natovichat/rent-management-app/api/internal/models"
)

// PortfolioTotals is the account-wide property tally.
type PortfolioTotals struct {
	PropertyCount int
	TotalValue    decimal.Decimal
}

// PropertyRepository defines the interface for property data access operations.
type PropertyRepository interface {
	// Create inserts p and fills in its ID and timestamps.
	Create(ctx context.Context, p *models.Property) error

	// FindByID returns nil, nil if the property is absent or not the account's.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error)

	// Owned reports whether the property exists and belongs to the account.
	// Inside a transaction the row stays locked against deletion until commit.
	Owned(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// List returns the account's properties, newest first.
	List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error)

	// Update writes every mutable column of p. Returns false if no row matched.
	Update(ctx context.Context, p *models.Property) (bool, error)

	// Delete removes the property and, by cascade, its dependents.
	Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// Totals counts the account's properties and sums their current value:
	// the latest valuation when one exists, the property's own estimate otherwise.
	Totals(ctx context.Context, accountID uuid.UUID) (PortfolioTotals, error)
}

// propertyRepository is the concrete implementation of PropertyRepository.
type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id, account_id, address, city, country, property_type,
	estimated_value, acquisition_price, acquisition_date, notes,
	created_at, updated_at`

// scanProperty reads one row selected with propertyColumns.
func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Address,
		&p.City,
		&p.Country,
		&p.Type,
		&p.EstimatedValue,
		&p.AcquisitionPrice,
		&p.AcquisitionDate,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a property and scans back the generated columns.
func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (
			account_id, address, city, country, property_type,
			estimated_value, acquisition_price, acquisition_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		p.AccountID, p.Address, p.City, p.Country, p.Type,
		p.EstimatedValue, p.AcquisitionPrice, p.AcquisitionDate, p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// FindByID maps pgx.ErrNoRows to nil, nil.
func (r *propertyRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND account_id = $2`

	p, err := scanProperty(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}
	return p, nil
}

// Owned locks the row FOR SHARE, which only lasts inside a transaction.
func (r *propertyRepository) Owned(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM properties WHERE id = $1 AND account_id = $2 FOR SHARE`

	var one int
	err := r.db.Conn(ctx).QueryRow(ctx, query, id, accountID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check property %s: %w", id, err)
	}
	return true, nil
}

// List filters by search and type. The search matches address or city
// as a literal substring, ignoring case.
func (r *propertyRepository) List(ctx context.Context, accountID uuid.UUID, q models.PropertyQuery) ([]models.Property, error) {
	w := newWhere("account_id", accountID)
	if q.Search != "" {
		w.add(`(address ILIKE $%d ESCAPE '\' OR city ILIKE $%[1]d ESCAPE '\')`, containsPattern(q.Search))
	}
	if q.Type != "" {
		w.add("property_type = $%d", q.Type)
	}
	query := `SELECT ` + propertyColumns + ` FROM properties ` + w.String() +
		` ORDER BY created_at DESC, id ` + w.page(q.Page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	results := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return results, nil
}

// Update bumps updated_at and scans it back into p.
func (r *propertyRepository) Update(ctx context.Context, p *models.Property) (bool, error) {
	query := `
		UPDATE properties SET
			address = $3, city = $4, country = $5, property_type = $6,
			estimated_value = $7, acquisition_price = $8, acquisition_date = $9,
			notes = $10, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
		RETURNING updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		p.ID, p.AccountID, p.Address, p.City, p.Country, p.Type,
		p.EstimatedValue, p.AcquisitionPrice, p.AcquisitionDate, p.Notes,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update property %s: %w", p.ID, err)
	}
	return true, nil
}

// Delete removes the row if it belongs to the account.
func (r *propertyRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM properties WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Totals picks each property's latest valuation with a lateral join.
func (r *propertyRepository) Totals(ctx context.Context, accountID uuid.UUID) (PortfolioTotals, error) {
	query := `
		SELECT
			COUNT(*),
			SUM(COALESCE(v.estimated_value, p.estimated_value, 0))
		FROM properties p
		LEFT JOIN LATERAL (
			SELECT estimated_value
			FROM valuations
			WHERE property_id = p.id
			ORDER BY valuation_date DESC, created_at DESC
			LIMIT 1
		) v ON TRUE
		WHERE p.account_id = $1`

	var totals PortfolioTotals
	var value decimal.NullDecimal
	if err := r.db.Conn(ctx).QueryRow(ctx, query, accountID).Scan(&totals.PropertyCount, &value); err != nil {
		return PortfolioTotals{}, fmt.Errorf("failed to total properties: %w", err)
	}
	totals.TotalValue = decimal.Zero
	if value.Valid {
		totals.TotalValue = value.Decimal
	}
	return totals, nil
}
