package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuationType records where an estimate came from.
type ValuationType string

const (
	ValuationMarket    ValuationType = "MARKET"
	ValuationPurchase  ValuationType = "PURCHASE"
	ValuationTax       ValuationType = "TAX"
	ValuationAppraisal ValuationType = "APPRAISAL"
)

// Valid reports whether t is a known valuation type.
func (t ValuationType) Valid() bool {
	switch t {
	case ValuationMarket, ValuationPurchase, ValuationTax, ValuationAppraisal:
		return true
	}
	return false
}

// Valuation is a dated estimate of a property's value. The latest one per
// property is the one with the greatest ValuationDate.
type Valuation struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      uuid.UUID       `json:"accountId"`
	PropertyID     uuid.UUID       `json:"propertyId"`
	ValuationDate  time.Time       `json:"valuationDate"`
	EstimatedValue decimal.Decimal `json:"estimatedValue"`
	Type           ValuationType   `json:"type"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"createdAt"`
}
