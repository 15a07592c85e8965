package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// Response DTOs. Money is a JSON number rounded to cents and calendar dates
// are YYYY-MM-DD strings.

type PropertyResponse struct {
	ID               uuid.UUID `json:"id"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	Type             string    `json:"type"`
	EstimatedValue   *float64  `json:"estimatedValue"`
	AcquisitionPrice *float64  `json:"acquisitionPrice"`
	AcquisitionDate  *string   `json:"acquisitionDate"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toPropertyResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID,
		Address:          p.Address,
		City:             p.City,
		Country:          p.Country,
		Type:             string(p.Type),
		EstimatedValue:   moneyPtr(p.EstimatedValue),
		AcquisitionPrice: moneyPtr(p.AcquisitionPrice),
		AcquisitionDate:  formatDatePtr(p.AcquisitionDate),
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"propertyId"`
	ExpenseDate string    `json:"expenseDate"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		PropertyID:  e.PropertyID,
		ExpenseDate: formatDate(e.Date),
		Amount:      money(e.Amount),
		Type:        string(e.Type),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type IncomeResponse struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"propertyId"`
	IncomeDate  string    `json:"incomeDate"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toIncomeResponse(in *models.Income) IncomeResponse {
	return IncomeResponse{
		ID:          in.ID,
		PropertyID:  in.PropertyID,
		IncomeDate:  formatDate(in.Date),
		Amount:      money(in.Amount),
		Type:        string(in.Type),
		Source:      in.Source,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

type MortgageResponse struct {
	ID             uuid.UUID `json:"id"`
	PropertyID     uuid.UUID `json:"propertyId"`
	Bank           string    `json:"bank"`
	LoanAmount     float64   `json:"loanAmount"`
	InterestRate   float64   `json:"interestRate"`
	StartDate      string    `json:"startDate"`
	EndDate        *string   `json:"endDate"`
	MonthlyPayment *float64  `json:"monthlyPayment"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toMortgageResponse(m *models.Mortgage) MortgageResponse {
	return MortgageResponse{
		ID:             m.ID,
		PropertyID:     m.PropertyID,
		Bank:           m.Bank,
		LoanAmount:     money(m.LoanAmount),
		InterestRate:   m.InterestRate.InexactFloat64(),
		StartDate:      formatDate(m.StartDate),
		EndDate:        formatDatePtr(m.EndDate),
		MonthlyPayment: moneyPtr(m.MonthlyPayment),
		Status:         string(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	MortgageID  uuid.UUID `json:"mortgageId"`
	PaymentDate string    `json:"paymentDate"`
	Amount      float64   `json:"amount"`
	Principal   float64   `json:"principal"`
	Interest    float64   `json:"interest"`
}

func toPaymentResponse(p *models.MortgagePayment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		MortgageID:  p.MortgageID,
		PaymentDate: formatDate(p.PaymentDate),
		Amount:      money(p.Amount),
		Principal:   money(p.Principal),
		Interest:    money(p.Interest),
	}
}

type MortgageDetailsResponse struct {
	MortgageResponse
	Payments         []PaymentResponse `json:"payments"`
	PrincipalPaid    float64           `json:"principalPaid"`
	RemainingBalance float64           `json:"remainingBalance"`
}

func toMortgageDetailsResponse(d *services.MortgageDetails) MortgageDetailsResponse {
	return MortgageDetailsResponse{
		MortgageResponse: toMortgageResponse(&d.Mortgage),
		Payments:         mapAll(d.Payments, toPaymentResponse),
		PrincipalPaid:    money(d.PrincipalPaid),
		RemainingBalance: money(d.RemainingBalance),
	}
}

type ValuationResponse struct {
	ID             uuid.UUID `json:"id"`
	PropertyID     uuid.UUID `json:"propertyId"`
	ValuationDate  string    `json:"valuationDate"`
	EstimatedValue float64   `json:"estimatedValue"`
	Type           string    `json:"type"`
	Notes          string    `json:"notes"`
}

func toValuationResponse(v *models.Valuation) ValuationResponse {
	return ValuationResponse{
		ID:             v.ID,
		PropertyID:     v.PropertyID,
		ValuationDate:  formatDate(v.ValuationDate),
		EstimatedValue: money(v.EstimatedValue),
		Type:           string(v.Type),
		Notes:          v.Notes,
	}
}

type UnitResponse struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"propertyId"`
	UnitNumber string    `json:"unitNumber"`
	Floor      *int      `json:"floor"`
	Rooms      *float64  `json:"rooms"`
}

func toUnitResponse(u *models.Unit) UnitResponse {
	r := UnitResponse{
		ID:         u.ID,
		PropertyID: u.PropertyID,
		UnitNumber: u.UnitNumber,
		Floor:      u.Floor,
	}
	if u.Rooms != nil {
		rooms := u.Rooms.InexactFloat64()
		r.Rooms = &rooms
	}
	return r
}

// ContactResponse serves both tenants and owners.
type ContactResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

func toTenantResponse(t *models.Tenant) ContactResponse {
	return ContactResponse{ID: t.ID, Name: t.Name, Email: t.Email, Phone: t.Phone}
}

func toOwnerResponse(o *models.Owner) ContactResponse {
	return ContactResponse{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone}
}

type LeaseResponse struct {
	ID          uuid.UUID `json:"id"`
	UnitID      uuid.UUID `json:"unitId"`
	TenantID    uuid.UUID `json:"tenantId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	MonthlyRent float64   `json:"monthlyRent"`
	Status      string    `json:"status"`
}

func toLeaseResponse(l *models.Lease) LeaseResponse {
	return LeaseResponse{
		ID:          l.ID,
		UnitID:      l.UnitID,
		TenantID:    l.TenantID,
		StartDate:   formatDate(l.StartDate),
		EndDate:     formatDate(l.EndDate),
		MonthlyRent: money(l.MonthlyRent),
		Status:      string(l.Status),
	}
}

type OwnershipResponse struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"propertyId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	SharePercent float64   `json:"sharePercent"`
}

func toOwnershipResponse(o *models.PropertyOwnership) OwnershipResponse {
	return OwnershipResponse{
		ID:           o.ID,
		PropertyID:   o.PropertyID,
		OwnerID:      o.OwnerID,
		SharePercent: money(o.SharePercent),
	}
}

type SummaryResponse struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Net           float64 `json:"net"`
}

func toSummaryResponse(s finance.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:   money(s.TotalIncome),
		TotalExpenses: money(s.TotalExpenses),
		Net:           money(s.Net),
	}
}

type CategoryResponse struct {
	Type       string  `json:"type"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

func toCategoryResponse(ct *finance.CategoryTotal) CategoryResponse {
	return CategoryResponse{
		Type:       ct.Type,
		Total:      money(ct.Total),
		Count:      ct.Count,
		Percentage: money(ct.Percentage),
	}
}

type PeriodResponse struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

func toPeriodResponse(p *finance.PeriodTotal) PeriodResponse {
	return PeriodResponse{
		Period:   p.Period,
		Income:   money(p.Income),
		Expenses: money(p.Expenses),
		Net:      money(p.Net),
	}
}

type PropertyDashboardResponse struct {
	Property        PropertyResponse   `json:"property"`
	Summary         SummaryResponse    `json:"summary"`
	PropertyValue   float64            `json:"propertyValue"`
	ROI             float64            `json:"roi"`
	LatestValuation *ValuationResponse `json:"latestValuation"`
	Expenses        []ExpenseResponse  `json:"expenses"`
	Income          []IncomeResponse   `json:"income"`
}

func toPropertyDashboardResponse(d *services.PropertyDashboard) PropertyDashboardResponse {
	r := PropertyDashboardResponse{
		Property:      toPropertyResponse(&d.Property),
		Summary:       toSummaryResponse(d.Summary),
		PropertyValue: money(d.PropertyValue),
		ROI:           money(d.ROI),
		Expenses:      mapAll(d.Expenses, toExpenseResponse),
		Income:        mapAll(d.Income, toIncomeResponse),
	}
	if d.LatestValuation != nil {
		v := toValuationResponse(d.LatestValuation)
		r.LatestValuation = &v
	}
	return r
}

type PortfolioResponse struct {
	PropertyCount int             `json:"propertyCount"`
	TotalValue    float64         `json:"totalValue"`
	TotalUnits    int             `json:"totalUnits"`
	OccupiedUnits int             `json:"occupiedUnits"`
	OccupancyRate float64         `json:"occupancyRate"`
	MortgageDebt  float64         `json:"mortgageDebt"`
	Equity        float64         `json:"equity"`
	Summary       SummaryResponse `json:"summary"`
	ROI           float64         `json:"roi"`
}

func toPortfolioResponse(p *services.PortfolioSummary) PortfolioResponse {
	return PortfolioResponse{
		PropertyCount: p.PropertyCount,
		TotalValue:    money(p.TotalValue),
		TotalUnits:    p.TotalUnits,
		OccupiedUnits: p.OccupiedUnits,
		OccupancyRate: money(p.OccupancyRate),
		MortgageDebt:  money(p.MortgageDebt),
		Equity:        money(p.Equity),
		Summary:       toSummaryResponse(p.Summary),
		ROI:           money(p.ROI),
	}
}
