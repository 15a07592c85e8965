package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Default and maximum page sizes for list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page is a limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// FinancialFilter scopes financial reads. Each record type applies the
// date bounds to its own date column; there is no shared transaction date.
type FinancialFilter struct {
	PropertyID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionQuery filters an expense or income listing.
type TransactionQuery struct {
	FinancialFilter
	Type string
	Page Page
}

// Entry is the minimal shape of a financial record used by aggregation:
// its raw category, its own date and its amount.
type Entry struct {
	Type   string
	Date   time.Time
	Amount decimal.Decimal
}
