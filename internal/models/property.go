package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType classifies a property.
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCommercial  PropertyType = "COMMERCIAL"
	PropertyLand        PropertyType = "LAND"
	PropertyMixedUse    PropertyType = "MIXED_USE"
	PropertyParking     PropertyType = "PARKING"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyResidential, PropertyCommercial, PropertyLand, PropertyMixedUse, PropertyParking:
		return true
	}
	return false
}

// Property is the aggregation root that owns units, expenses, income,
// mortgages and valuations. Nullable columns use pointers.
type Property struct {
	ID               uuid.UUID        `json:"id"`
	AccountID        uuid.UUID        `json:"accountId"`
	Address          string           `json:"address"`
	City             string           `json:"city"`
	Country          string           `json:"country"`
	Type             PropertyType     `json:"type"`
	EstimatedValue   *decimal.Decimal `json:"estimatedValue,omitempty"`
	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice,omitempty"`
	AcquisitionDate  *time.Time       `json:"acquisitionDate,omitempty"`
	Notes            string           `json:"notes"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// PropertyPatch carries a partial property update; nil fields are left alone.
type PropertyPatch struct {
	Address          *string
	City             *string
	Country          *string
	Type             *PropertyType
	EstimatedValue   *decimal.Decimal
	AcquisitionPrice *decimal.Decimal
	AcquisitionDate  *time.Time
	Notes            *string
}

// Apply copies the set fields of p onto prop.
func (p PropertyPatch) Apply(prop *Property) {
	if p.Address != nil {
		prop.Address = *p.Address
	}
	if p.City != nil {
		prop.City = *p.City
	}
	if p.Country != nil {
		prop.Country = *p.Country
	}
	if p.Type != nil {
		prop.Type = *p.Type
	}
	if p.EstimatedValue != nil {
		prop.EstimatedValue = p.EstimatedValue
	}
	if p.AcquisitionPrice != nil {
		prop.AcquisitionPrice = p.AcquisitionPrice
	}
	if p.AcquisitionDate != nil {
		prop.AcquisitionDate = p.AcquisitionDate
	}
	if p.Notes != nil {
		prop.Notes = *p.Notes
	}
}

// PropertyQuery filters a property listing.
type PropertyQuery struct {
	Search string
	Type   PropertyType
	Page   Page
}
