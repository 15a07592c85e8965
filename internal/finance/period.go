package finance

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/models"
)

// Granularity is the bucket size of a period series.
type Granularity string

const (
	GranularityYear    Granularity = "year"
	GranularityQuarter Granularity = "quarter"
	GranularityMonth   Granularity = "month"
)

// ErrInvalidGranularity is returned for an unknown groupBy value.
var ErrInvalidGranularity = errors.New("groupBy must be one of year, quarter, month")

// ParseGranularity parses a groupBy value. Empty means month.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case "", GranularityMonth:
		return GranularityMonth, nil
	case GranularityQuarter:
		return GranularityQuarter, nil
	case GranularityYear:
		return GranularityYear, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidGranularity, s)
}

// PeriodKey returns the bucket a date falls in: "YYYY", "YYYY-Qn" or "YYYY-MM".
// Keys of one granularity sort chronologically as plain strings.
func PeriodKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityYear:
		return fmt.Sprintf("%04d", t.Year())
	case GranularityQuarter:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// PeriodTotal is one bucket of an income/expense series.
type PeriodTotal struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// GroupByPeriod buckets income and expenses by the period of each record's
// own date and merges them. Only periods holding at least one record are
// emitted, ascending by period, with every value rounded to two places.
func GroupByPeriod(income, expenses []models.Entry, g Granularity) []PeriodTotal {
	buckets := make(map[string]*PeriodTotal)

	bucket := func(t time.Time) *PeriodTotal {
		key := PeriodKey(t, g)
		b, ok := buckets[key]
		if !ok {
			b = &PeriodTotal{Period: key, Income: decimal.Zero, Expenses: decimal.Zero}
			buckets[key] = b
		}
		return b
	}

	for _, e := range income {
		b := bucket(e.Date)
		b.Income = b.Income.Add(e.Amount)
	}
	for _, e := range expenses {
		b := bucket(e.Date)
		b.Expenses = b.Expenses.Add(e.Amount)
	}

	result := make([]PeriodTotal, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, PeriodTotal{
			Period:   b.Period,
			Income:   Round2(b.Income),
			Expenses: Round2(b.Expenses),
			Net:      Round2(b.Income.Sub(b.Expenses)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})

	return result
}
