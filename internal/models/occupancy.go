package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseFuture     LeaseStatus = "FUTURE"
	LeaseActive     LeaseStatus = "ACTIVE"
	LeaseExpired    LeaseStatus = "EXPIRED"
	LeaseTerminated LeaseStatus = "TERMINATED"
)

// Valid reports whether s is a known lease status.
func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseFuture, LeaseActive, LeaseExpired, LeaseTerminated:
		return true
	}
	return false
}

// Unit is a rentable space inside a property.
type Unit struct {
	ID         uuid.UUID        `json:"id"`
	AccountID  uuid.UUID        `json:"accountId"`
	PropertyID uuid.UUID        `json:"propertyId"`
	UnitNumber string           `json:"unitNumber"`
	Floor      *int             `json:"floor,omitempty"`
	Rooms      *decimal.Decimal `json:"rooms,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Tenant is a person or company renting a unit.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Lease binds a tenant to a unit for a date range.
type Lease struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	UnitID      uuid.UUID       `json:"unitId"`
	TenantID    uuid.UUID       `json:"tenantId"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	MonthlyRent decimal.Decimal `json:"monthlyRent"`
	Status      LeaseStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Owner is a person or entity holding a share of one or more properties.
type Owner struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PropertyOwnership records an owner's share of a property. A given owner
// appears at most once per property.
type PropertyOwnership struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"accountId"`
	PropertyID   uuid.UUID       `json:"propertyId"`
	OwnerID      uuid.UUID       `json:"ownerId"`
	SharePercent decimal.Decimal `json:"sharePercent"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// OccupancyCounts is the unit/lease tally used by the portfolio dashboard.
type OccupancyCounts struct {
	TotalUnits    int
	OccupiedUnits int
}
