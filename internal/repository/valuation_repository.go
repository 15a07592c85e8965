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

// ValuationRepository defines the interface for valuation data access.
type ValuationRepository interface {
	// Create inserts v and fills its id and created_at.
	Create(ctx context.Context, v *models.Valuation) error

	// ListByProperty returns a property's valuations, newest first.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error)

	// Latest returns the valuation with the greatest date, or nil, nil if
	// the property has none.
	Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error)
}

// valuationRepository is the concrete implementation of ValuationRepository.
type valuationRepository struct {
	db *database.Database
}

// NewValuationRepository creates a new instance of ValuationRepository.
func NewValuationRepository(db *database.Database) ValuationRepository {
	return &valuationRepository{db: db}
}

const valuationColumns = `
	id, account_id, property_id, valuation_date, estimated_value, type, notes, created_at`

// scanValuation reads one row selected with valuationColumns.
func scanValuation(row pgx.Row) (*models.Valuation, error) {
	var v models.Valuation
	err := row.Scan(
		&v.ID,
		&v.AccountID,
		&v.PropertyID,
		&v.ValuationDate,
		&v.EstimatedValue,
		&v.Type,
		&v.Notes,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a valuation.
func (r *valuationRepository) Create(ctx context.Context, v *models.Valuation) error {
	query := `
		INSERT INTO valuations (account_id, property_id, valuation_date, estimated_value, type, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		v.AccountID, v.PropertyID, v.ValuationDate, v.EstimatedValue, v.Type, v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert valuation: %w", err)
	}
	return nil
}

// ListByProperty lists valuations; ties on date go to the later insert.
func (r *valuationRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations
		WHERE account_id = $1 AND property_id = $2
		ORDER BY valuation_date DESC, created_at DESC`

	rows, err := r.db.Conn(ctx).Query(ctx, query, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	defer rows.Close()

	results := []models.Valuation{}
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation row: %w", err)
		}
		results = append(results, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation rows: %w", err)
	}
	return results, nil
}

// Latest maps pgx.ErrNoRows to nil, nil.
func (r *valuationRepository) Latest(ctx context.Context, accountID, propertyID uuid.UUID) (*models.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations
		WHERE account_id = $1 AND property_id = $2
		ORDER BY valuation_date DESC, created_at DESC
		LIMIT 1`

	v, err := scanValuation(r.db.Conn(ctx).QueryRow(ctx, query, accountID, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest valuation: %w", err)
	}
	return v, nil
}
