// Package finance holds the arithmetic behind the financial reports:
// summaries, category breakdowns, period series, ROI and loan balances.
// Everything here is pure; callers fetch the rows and pass them in.
package finance

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary is total income against total expenses for some scope.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
}

// Summarize builds a Summary. Net is exactly income minus expenses.
func Summarize(income, expenses decimal.Decimal) Summary {
	return Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Net:           income.Sub(expenses),
	}
}

// Coalesce treats a missing aggregate as zero.
func Coalesce(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percentage returns part / whole * 100 rounded to two places, or zero
// when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round2(part.Div(whole).Mul(hundred))
}

// ROI is net income as a percentage of property value, rounded to two
// places. A non-positive property value yields zero.
func ROI(netIncome, propertyValue decimal.Decimal) decimal.Decimal {
	if !propertyValue.IsPositive() {
		return decimal.Zero
	}
	return Percentage(netIncome, propertyValue)
}

// RemainingBalance subtracts every principal repayment from the loan amount.
// Over-payment produces a negative balance; it is reported as is.
func RemainingBalance(loanAmount decimal.Decimal, principals []decimal.Decimal) decimal.Decimal {
	return loanAmount.Sub(decimal.Sum(decimal.Zero, principals...))
}

// OccupancyRate is occupied / total * 100 rounded to two places, zero for
// an empty portfolio.
func OccupancyRate(occupied, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return Percentage(decimal.NewFromInt(int64(occupied)), decimal.NewFromInt(int64(total)))
}
