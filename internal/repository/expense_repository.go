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

// ExpenseRepository defines the interface for expense data access operations.
type ExpenseRepository interface {
	// Create inserts e and fills its id and timestamps.
	Create(ctx context.Context, e *models.Expense) error

	// FindByID returns nil, nil if the expense is absent or not the account's.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error)

	// List returns matching expenses ordered by expense_date descending.
	List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error)

	// Update writes every mutable column of e. Returns false if no row matched.
	Update(ctx context.Context, e *models.Expense) (bool, error)

	// Delete returns false if no row of the account matched.
	Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// Sum aggregates amount over the filter. The aggregate is NULL (invalid)
	// when nothing matches.
	Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error)

	// Entries returns type, expense_date and amount of every matching expense.
	Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error)
}

// expenseRepository is the concrete implementation of ExpenseRepository.
type expenseRepository struct {
	db *database.Database
}

// NewExpenseRepository creates a new instance of ExpenseRepository.
func NewExpenseRepository(db *database.Database) ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `
	id, account_id, property_id, expense_date, amount, type, description,
	created_at, updated_at`

// scanExpense reads one row selected with expenseColumns.
func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.PropertyID,
		&e.Date,
		&e.Amount,
		&e.Type,
		&e.Description,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an expense and scans back the generated columns.
func (r *expenseRepository) Create(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (account_id, property_id, expense_date, amount, type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		e.AccountID, e.PropertyID, e.Date, e.Amount, e.Type, e.Description,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// FindByID maps pgx.ErrNoRows to nil, nil.
func (r *expenseRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND account_id = $2`

	e, err := scanExpense(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query expense %s: %w", id, err)
	}
	return e, nil
}

// List applies the financial filter, the optional type and the page.
func (r *expenseRepository) List(ctx context.Context, accountID uuid.UUID, q models.TransactionQuery) ([]models.Expense, error) {
	w := newWhere("account_id", accountID)
	w.financial(q.FinancialFilter, "property_id", "expense_date")
	if q.Type != "" {
		w.add("type = $%d", q.Type)
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses ` + w.String() +
		` ORDER BY expense_date DESC, created_at DESC ` + w.page(q.Page)

	rows, err := r.db.Conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	results := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		results = append(results, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return results, nil
}

// Update bumps updated_at and scans it back into e.
func (r *expenseRepository) Update(ctx context.Context, e *models.Expense) (bool, error) {
	query := `
		UPDATE expenses SET
			property_id = $3, expense_date = $4, amount = $5, type = $6,
			description = $7, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
		RETURNING updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		e.ID, e.AccountID, e.PropertyID, e.Date, e.Amount, e.Type, e.Description,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update expense %s: %w", e.ID, err)
	}
	return true, nil
}

// Delete removes the row if it belongs to the account.
func (r *expenseRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Sum leaves the NULL of an empty aggregate for the caller to coalesce.
func (r *expenseRepository) Sum(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (decimal.NullDecimal, error) {
	w := newWhere("account_id", accountID)
	w.financial(f, "property_id", "expense_date")

	var sum decimal.NullDecimal
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT SUM(amount) FROM expenses `+w.String(), w.args...).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return sum, nil
}

// Entries returns the minimal rows the breakdown and series need, oldest first.
func (r *expenseRepository) Entries(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]models.Entry, error) {
	w := newWhere("account_id", accountID)
	w.financial(f, "property_id", "expense_date")

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT type, expense_date, amount FROM expenses `+w.String()+` ORDER BY expense_date`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.Type, &e.Date, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense entries: %w", err)
	}
	return entries, nil
}
