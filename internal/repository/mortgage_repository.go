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

// LoanPosition is a mortgage's original amount and the principal repaid so far.
type LoanPosition struct {
	MortgageID    uuid.UUID
	LoanAmount    decimal.Decimal
	PrincipalPaid decimal.Decimal
}

// MortgageRepository defines the interface for mortgage and payment data access.
type MortgageRepository interface {
	// Create inserts m and fills its id and timestamps.
	Create(ctx context.Context, m *models.Mortgage) error

	// FindByID returns nil, nil if the mortgage is absent or not the account's.
	// Inside a transaction the row stays locked against deletion until commit.
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Mortgage, error)

	// ListByProperty returns a property's mortgages, newest start first.
	ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error)

	// Delete returns false if no row of the account matched. Payments
	// cascade with the mortgage.
	Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// AddPayment inserts p and fills its id and created_at.
	AddPayment(ctx context.Context, p *models.MortgagePayment) error

	// Payments returns a mortgage's ledger ordered by payment date.
	Payments(ctx context.Context, mortgageID uuid.UUID) ([]models.MortgagePayment, error)

	// ActivePositions returns loan amount and repaid principal of every
	// ACTIVE mortgage of the account.
	ActivePositions(ctx context.Context, accountID uuid.UUID) ([]LoanPosition, error)
}

// mortgageRepository is the concrete implementation of MortgageRepository.
type mortgageRepository struct {
	db *database.Database
}

// NewMortgageRepository creates a new instance of MortgageRepository.
func NewMortgageRepository(db *database.Database) MortgageRepository {
	return &mortgageRepository{db: db}
}

const mortgageColumns = `
	id, account_id, property_id, bank, loan_amount, interest_rate,
	start_date, end_date, monthly_payment, status, created_at, updated_at`

// scanMortgage reads one row selected with mortgageColumns.
func scanMortgage(row pgx.Row) (*models.Mortgage, error) {
	var m models.Mortgage
	err := row.Scan(
		&m.ID,
		&m.AccountID,
		&m.PropertyID,
		&m.Bank,
		&m.LoanAmount,
		&m.InterestRate,
		&m.StartDate,
		&m.EndDate,
		&m.MonthlyPayment,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a mortgage and scans back the generated columns.
func (r *mortgageRepository) Create(ctx context.Context, m *models.Mortgage) error {
	query := `
		INSERT INTO mortgages (
			account_id, property_id, bank, loan_amount, interest_rate,
			start_date, end_date, monthly_payment, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		m.AccountID, m.PropertyID, m.Bank, m.LoanAmount, m.InterestRate,
		m.StartDate, m.EndDate, m.MonthlyPayment, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert mortgage: %w", err)
	}
	return nil
}

// FindByID takes a share lock inside a transaction so a payment cannot
// be added to a mortgage that is being deleted.
func (r *mortgageRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*models.Mortgage, error) {
	query := `SELECT ` + mortgageColumns + ` FROM mortgages WHERE id = $1 AND account_id = $2`
	if database.InTx(ctx) {
		query += ` FOR SHARE`
	}

	m, err := scanMortgage(r.db.Conn(ctx).QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query mortgage %s: %w", id, err)
	}
	return m, nil
}

// ListByProperty lists the property's mortgages.
func (r *mortgageRepository) ListByProperty(ctx context.Context, accountID, propertyID uuid.UUID) ([]models.Mortgage, error) {
	query := `SELECT ` + mortgageColumns + ` FROM mortgages
		WHERE account_id = $1 AND property_id = $2
		ORDER BY start_date DESC`

	rows, err := r.db.Conn(ctx).Query(ctx, query, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mortgages: %w", err)
	}
	defer rows.Close()

	results := []models.Mortgage{}
	for rows.Next() {
		m, err := scanMortgage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mortgage row: %w", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mortgage rows: %w", err)
	}
	return results, nil
}

// Delete removes the row if it belongs to the account.
func (r *mortgageRepository) Delete(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM mortgages WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete mortgage %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddPayment inserts one ledger row.
func (r *mortgageRepository) AddPayment(ctx context.Context, p *models.MortgagePayment) error {
	query := `
		INSERT INTO mortgage_payments (mortgage_id, payment_date, amount, principal, interest)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		p.MortgageID, p.PaymentDate, p.Amount, p.Principal, p.Interest,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert mortgage payment: %w", err)
	}
	return nil
}

// Payments reads the ledger. The caller has already scoped the mortgage
// to the account.
func (r *mortgageRepository) Payments(ctx context.Context, mortgageID uuid.UUID) ([]models.MortgagePayment, error) {
	query := `
		SELECT id, mortgage_id, payment_date, amount, principal, interest, created_at
		FROM mortgage_payments
		WHERE mortgage_id = $1
		ORDER BY payment_date, created_at`

	rows, err := r.db.Conn(ctx).Query(ctx, query, mortgageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mortgage payments: %w", err)
	}
	defer rows.Close()

	results := []models.MortgagePayment{}
	for rows.Next() {
		var p models.MortgagePayment
		if err := rows.Scan(&p.ID, &p.MortgageID, &p.PaymentDate, &p.Amount, &p.Principal, &p.Interest, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mortgage payment row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mortgage payment rows: %w", err)
	}
	return results, nil
}

// ActivePositions sums repaid principal per ACTIVE mortgage in one query.
func (r *mortgageRepository) ActivePositions(ctx context.Context, accountID uuid.UUID) ([]LoanPosition, error) {
	query := `
		SELECT m.id, m.loan_amount, COALESCE(SUM(p.principal), 0)
		FROM mortgages m
		LEFT JOIN mortgage_payments p ON p.mortgage_id = m.id
		WHERE m.account_id = $1 AND m.status = $2
		GROUP BY m.id, m.loan_amount`

	rows, err := r.db.Conn(ctx).Query(ctx, query, accountID, models.MortgageActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query mortgage positions: %w", err)
	}
	defer rows.Close()

	results := []LoanPosition{}
	for rows.Next() {
		var lp LoanPosition
		if err := rows.Scan(&lp.MortgageID, &lp.LoanAmount, &lp.PrincipalPaid); err != nil {
			return nil, fmt.Errorf("failed to scan mortgage position: %w", err)
		}
		results = append(results, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mortgage positions: %w", err)
	}
	return results, nil
}
