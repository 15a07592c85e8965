// Package repository holds the account-scoped PostgreSQL data access.
//
// Every query filters on account_id. Lookups by id return nil, nil when the
// row is absent or belongs to another account; the two cases are
// indistinguishable on purpose. List and aggregate queries over an empty
// scope return empty slices and zero sums.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/natovichat/rent-management-app/api/internal/models"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with any
// wildcards in s taken literally. Use it with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// newWhere starts with the account predicate every query needs.
func newWhere(accountColumn string, accountID any) *where {
	w := &where{}
	w.add(accountColumn+" = $%d", accountID)
	return w
}

// add appends a predicate; the single %d in clause becomes the next placeholder.
func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

// financial applies a FinancialFilter against the record type's own date column.
func (w *where) financial(f models.FinancialFilter, propertyColumn, dateColumn string) {
	if f.PropertyID != nil {
		w.add(propertyColumn+" = $%d", *f.PropertyID)
	}
	if f.StartDate != nil {
		w.add(dateColumn+" >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		w.add(dateColumn+" <= $%d", *f.EndDate)
	}
}

// String renders the WHERE clause.
func (w *where) String() string {
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *where) page(p models.Page) string {
	p = p.Normalize()
	w.args = append(w.args, p.Limit, p.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
