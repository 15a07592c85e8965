package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType is the category of an expense.
type ExpenseType string

const (
	ExpenseMaintenance ExpenseType = "MAINTENANCE"
	ExpenseTax         ExpenseType = "TAX"
	ExpenseInsurance   ExpenseType = "INSURANCE"
	ExpenseUtilities   ExpenseType = "UTILITIES"
	ExpenseManagement  ExpenseType = "MANAGEMENT"
	ExpenseLegal       ExpenseType = "LEGAL"
	ExpenseOther       ExpenseType = "OTHER"
)

// Valid reports whether t is a known expense type.
func (t ExpenseType) Valid() bool {
	switch t {
	case ExpenseMaintenance, ExpenseTax, ExpenseInsurance, ExpenseUtilities,
		ExpenseManagement, ExpenseLegal, ExpenseOther:
		return true
	}
	return false
}

// IncomeType is the category of an income record.
type IncomeType string

const (
	IncomeRent        IncomeType = "RENT"
	IncomeSale        IncomeType = "SALE"
	IncomeCapitalGain IncomeType = "CAPITAL_GAIN"
	IncomeOther       IncomeType = "OTHER"
)

// Valid reports whether t is a known income type.
func (t IncomeType) Valid() bool {
	switch t {
	case IncomeRent, IncomeSale, IncomeCapitalGain, IncomeOther:
		return true
	}
	return false
}

// Expense is money spent on a property.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	PropertyID  uuid.UUID       `json:"propertyId"`
	Date        time.Time       `json:"expenseDate"`
	Amount      decimal.Decimal `json:"amount"`
	Type        ExpenseType     `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpensePatch is a partial expense update.
type ExpensePatch struct {
	PropertyID  *uuid.UUID
	Date        *time.Time
	Amount      *decimal.Decimal
	Type        *ExpenseType
	Description *string
}

// Apply copies the set fields of p onto e.
func (p ExpensePatch) Apply(e *Expense) {
	if p.PropertyID != nil {
		e.PropertyID = *p.PropertyID
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}

// Income is money received for a property.
type Income struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	PropertyID  uuid.UUID       `json:"propertyId"`
	Date        time.Time       `json:"incomeDate"`
	Amount      decimal.Decimal `json:"amount"`
	Type        IncomeType      `json:"type"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IncomePatch is a partial income update.
type IncomePatch struct {
	PropertyID  *uuid.UUID
	Date        *time.Time
	Amount      *decimal.Decimal
	Type        *IncomeType
	Source      *string
	Description *string
}

// Apply copies the set fields of p onto in.
func (p IncomePatch) Apply(in *Income) {
	if p.PropertyID != nil {
		in.PropertyID = *p.PropertyID
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Source != nil {
		in.Source = *p.Source
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
}
