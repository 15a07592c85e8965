package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEnumValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		got   bool
	}{
		{"property type", true, PropertyMixedUse.Valid()},
		{"lowercase property type", false, PropertyType("residential").Valid()},
		{"expense type", true, ExpenseLegal.Valid()},
		{"unknown expense type", false, ExpenseType("FOOD").Valid()},
		{"income type", true, IncomeCapitalGain.Valid()},
		{"empty income type", false, IncomeType("").Valid()},
		{"valuation type", true, ValuationAppraisal.Valid()},
		{"unknown valuation type", false, ValuationType("GUESS").Valid()},
		{"mortgage status", true, MortgageRefinanced.Valid()},
		{"unknown mortgage status", false, MortgageStatus("OPEN").Valid()},
		{"lease status", true, LeaseFuture.Valid()},
		{"unknown lease status", false, LeaseStatus("PENDING").Valid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.got)
		})
	}
}

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero gets default", Page{}, Page{Limit: DefaultPageSize}},
		{"negative limit gets default", Page{Limit: -5, Offset: 10}, Page{Limit: DefaultPageSize, Offset: 10}},
		{"limit is capped", Page{Limit: MaxPageSize + 1}, Page{Limit: MaxPageSize}},
		{"negative offset is zero", Page{Limit: 5, Offset: -1}, Page{Limit: 5}},
		{"in range is kept", Page{Limit: 20, Offset: 40}, Page{Limit: 20, Offset: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPropertyPatchApply(t *testing.T) {
	value := decimal.NewFromInt(900000)
	prop := Property{Address: "12 Herzl St", City: "Haifa", Type: PropertyResidential, EstimatedValue: &value, Notes: "corner"}

	city := "Tel Aviv"
	typ := PropertyCommercial
	newValue := decimal.NewFromInt(1200000)
	PropertyPatch{City: &city, Type: &typ, EstimatedValue: &newValue}.Apply(&prop)

	assert.Equal(t, "12 Herzl St", prop.Address)
	assert.Equal(t, "Tel Aviv", prop.City)
	assert.Equal(t, PropertyCommercial, prop.Type)
	assert.True(t, prop.EstimatedValue.Equal(newValue))
	assert.Equal(t, "corner", prop.Notes)
	assert.Nil(t, prop.AcquisitionDate)
}

func TestExpensePatchApply(t *testing.T) {
	propertyID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	e := Expense{PropertyID: propertyID, Date: date, Amount: decimal.NewFromInt(100), Type: ExpenseTax, Description: "q1"}

	amount := decimal.RequireFromString("120.50")
	empty := ""
	ExpensePatch{Amount: &amount, Description: &empty}.Apply(&e)

	assert.Equal(t, propertyID, e.PropertyID)
	assert.Equal(t, date, e.Date)
	assert.True(t, e.Amount.Equal(amount))
	assert.Equal(t, ExpenseTax, e.Type)
	assert.Empty(t, e.Description, "an explicit empty string clears the field")
}

func TestIncomePatchApply(t *testing.T) {
	in := Income{Amount: decimal.NewFromInt(4000), Type: IncomeRent, Source: "tenant A"}

	other := uuid.New()
	source := "tenant B"
	IncomePatch{PropertyID: &other, Source: &source}.Apply(&in)

	assert.Equal(t, other, in.PropertyID)
	assert.Equal(t, "tenant B", in.Source)
	assert.Equal(t, IncomeRent, in.Type)
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(4000)))

	before := in
	IncomePatch{}.Apply(&in)
	assert.Equal(t, before, in)
}
