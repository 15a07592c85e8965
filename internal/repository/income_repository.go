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

// IncomeRepository defines the interface for income data access operations.
type IncomeRepository interface {
	// Create inserts in and fills its id and timestamps.
	Create(ctx context.Context, in *models.Income) error

	// FindByID returns nil, nil if the income is absent or not the account's.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error)

	// List returns matching income records ordered by income_date descending.
	List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error)

	// Update writes every mutable column of in. Returns false if no row matched.
	Update(ctx context.Context, in *models.Income) (bool, error)

	// Delete returns false if no row of the account matched.
	Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// Sum aggregates amount over the filter. The aggregate is NULL (invalid)
	// when nothing matches.
	Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error)

	// Entries returns type, income_date and amount of every matching income record.
	Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error)
}

// incomeRepository is the concrete implementation of IncomeRepository.
type incomeRepository struct {
	db *database.Database
}

// NewIncomeRepository creates a new instance of IncomeRepository.
func NewIncomeRepository(db *database.Database) IncomeRepository {
	return &incomeRepository{db: db}
}

const incomeColumns = `
	id, account_id, property_id, income_date, amount, type, source, description,
	created_at, updated_at`

// scanIncome reads one row selected with incomeColumns.
func scanIncome(row pgx.Row) (*models.Income, error) {
	var in models.Income
	err := row.Scan(
		&in.ID,
		&in.AccountID,
		&in.PropertyID,
		&in.Date,
		&in.Amount,
		&in.Type,
		&in.Source,
		&in.Description,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// Create inserts an income record and scans back the generated columns.
func (r *incomeRepository) Create(ctx context.Context, in *models.Income) error {
	query := `
		INSERT INTO incomes (account_id, property_id, income_date, amount, type, source, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		in.AccountID, in.PropertyID, in.Date, in.Amount, in.Type, in.Source, in.Description,
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert income: %w", err)
	}
	return nil
}

// FindByID maps pgx.ErrNoRows to nil, nil.
func (r *incomeRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1 AND account_id = $2`

	in, err := scanIncome(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query income %s: %w", id, err)
	}
	return in, nil
}

// List applies the financial filter, the optional type and the page.
func (r *incomeRepository) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Income, error) {
	w := newWhere("account_id", accountID)
	w.financial(q.FinancialFilter, "property_id", "income_date")
	if q.Type != "" {
		w.add("type = $%d", q.Type)
	}
	query := `SELECT ` + incomeColumns + ` FROM incomes ` + w.String() +
		` ORDER BY income_date DESC, created_at DESC ` + w.page(q.Page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	results := []models.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		results = append(results, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income rows: %w", err)
	}
	return results, nil
}

// Update bumps updated_at and scans it back into in.
func (r *incomeRepository) Update(ctx context.Context, in *models.Income) (bool, error) {
	query := `
		UPDATE incomes SET
			property_id = $3, income_date = $4, amount = $5, type = $6,
			source = $7, description = $8, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
		RETURNING updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		in.ID, in.AccountID, in.PropertyID, in.Date, in.Amount, in.Type, in.Source, in.Description,
	).Scan(&in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update income %s: %w", in.ID, err)
	}
	return true, nil
}

// Delete removes the row if it belongs to the account.
func (r *incomeRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM incomes WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete income %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Sum leaves the NULL of an empty aggregate for the caller to coalesce.
func (r *incomeRepository) Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error) {
	w := newWhere("account_id", accountID)
	w.financial(f, "property_id", "income_date")

	var sum decimal.NullDecimal
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT SUM(amount) FROM incomes `+w.String(), w.args...).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum incomes: %w", err)
	}
	return sum, nil
}

// Entries returns type, date and amount, oldest first.
func (r *incomeRepository) Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error) {
	w := newWhere("account_id", accountID)
	w.financial(f, "property_id", "income_date")

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT type, income_date, amount FROM incomes `+w.String()+` ORDER BY income_date`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query income entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.Type, &e.Date, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan income entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income entries: %w", err)
	}
	return entries, nil
}
