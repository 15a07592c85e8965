package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MortgageStatus is the lifecycle state of a loan.
type MortgageStatus string

const (
	MortgageActive     MortgageStatus = "ACTIVE"
	MortgagePaidOff    MortgageStatus = "PAID_OFF"
	MortgageRefinanced MortgageStatus = "REFINANCED"
	MortgageDefaulted  MortgageStatus = "DEFAULTED"
)

// Valid reports whether s is a known mortgage status.
func (s MortgageStatus) Valid() bool {
	switch s {
	case MortgageActive, MortgagePaidOff, MortgageRefinanced, MortgageDefaulted:
		return true
	}
	return false
}

// Mortgage is a loan secured on a property.
type Mortgage struct {
	ID             uuid.UUID        `json:"id"`
	AccountID      uuid.UUID        `json:"accountId"`
	PropertyID     uuid.UUID        `json:"propertyId"`
	Bank           string           `json:"bank"`
	LoanAmount     decimal.Decimal  `json:"loanAmount"`
	InterestRate   decimal.Decimal  `json:"interestRate"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	MonthlyPayment *decimal.Decimal `json:"monthlyPayment,omitempty"`
	Status         MortgageStatus   `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// MortgagePayment is one entry in a mortgage's payment ledger.
type MortgagePayment struct {
	ID          uuid.UUID       `json:"id"`
	MortgageID  uuid.UUID       `json:"mortgageId"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	CreatedAt   time.Time       `json:"createdAt"`
}
