package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// MortgageRequest is the body of POST /properties/:id/mortgages.
type MortgageRequest struct {
	Bank           string           `json:"bank" binding:"required,max=200"`
	LoanAmount     *decimal.Decimal `json:"loanAmount" binding:"required"`
	InterestRate   *decimal.Decimal `json:"interestRate" binding:"required"`
	StartDate      string           `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate        *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	MonthlyPayment *decimal.Decimal `json:"monthlyPayment"`
	Status         string           `json:"status"`
}

// PaymentRequest is the body of POST /mortgages/:id/payments.
type PaymentRequest struct {
	PaymentDate string           `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Principal   *decimal.Decimal `json:"principal" binding:"required"`
	Interest    *decimal.Decimal `json:"interest" binding:"required"`
}

// ValuationRequest is the body of POST /properties/:id/valuations.
type ValuationRequest struct {
	ValuationDate  string           `json:"valuationDate" binding:"required,datetime=2006-01-02"`
	EstimatedValue *decimal.Decimal `json:"estimatedValue" binding:"required"`
	Type           string           `json:"type"`
	Notes          string           `json:"notes" binding:"max=2000"`
}

// UnitRequest is the body of POST /properties/:id/units.
type UnitRequest struct {
	UnitNumber string           `json:"unitNumber" binding:"required,max=50"`
	Floor      *int             `json:"floor"`
	Rooms      *decimal.Decimal `json:"rooms"`
}

// OwnershipRequest is the body of POST /properties/:id/owners.
type OwnershipRequest struct {
	OwnerID      string           `json:"ownerId" binding:"required,uuid"`
	SharePercent *decimal.Decimal `json:"sharePercent" binding:"required"`
}

// AssetHandler serves the records hanging off a property: mortgages and
// their payments, valuations, units and ownership shares.
type AssetHandler struct {
	mortgages  services.MortgageService
	valuations services.ValuationService
	units      services.UnitService
	owners     services.OwnerService
}

// NewAssetHandler creates a new AssetHandler instance.
func NewAssetHandler(mortgages services.MortgageService, valuations services.ValuationService, units services.UnitService, owners services.OwnerService) *AssetHandler {
	return &AssetHandler{mortgages: mortgages, valuations: valuations, units: units, owners: owners}
}

// ListMortgages handles GET /api/v1/properties/:id/mortgages.
func (h *AssetHandler) ListMortgages(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.mortgages.ListByProperty(c.Request.Context(), middleware.GetAccountID(c), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list mortgages")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toMortgageResponse)))
}

// CreateMortgage handles POST /api/v1/properties/:id/mortgages.
func (h *AssetHandler) CreateMortgage(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MortgageRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		respondError(c, err, "")
		return
	}
	end, err := parseOptionalDate("endDate", req.EndDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.mortgages.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Mortgage{
		PropertyID:     propertyID,
		Bank:           req.Bank,
		LoanAmount:     *req.LoanAmount,
		InterestRate:   *req.InterestRate,
		StartDate:      start,
		EndDate:        end,
		MonthlyPayment: req.MonthlyPayment,
		Status:         models.MortgageStatus(strings.ToUpper(req.Status)),
	})
	if err != nil {
		respondError(c, err, "Failed to create mortgage")
		return
	}

	c.JSON(http.StatusCreated, toMortgageResponse(created))
}

// GetMortgage handles GET /api/v1/mortgages/:id.
func (h *AssetHandler) GetMortgage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.mortgages.Get(c.Request.Context(), middleware.GetAccountID(c), id)
	if err != nil {
		respondError(c, err, "Failed to load mortgage")
		return
	}

	c.JSON(http.StatusOK, toMortgageDetailsResponse(details))
}

// DeleteMortgage handles DELETE /api/v1/mortgages/:id.
func (h *AssetHandler) DeleteMortgage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.mortgages.Delete(c.Request.Context(), middleware.GetAccountID(c), id); err != nil {
		respondError(c, err, "Failed to delete mortgage")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddPayment handles POST /api/v1/mortgages/:id/payments.
func (h *AssetHandler) AddPayment(c *gin.Context) {
	mortgageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	paid, err := parseDate("paymentDate", req.PaymentDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	payment, err := h.mortgages.AddPayment(c.Request.Context(), middleware.GetAccountID(c), mortgageID, &models.MortgagePayment{
		PaymentDate: paid,
		Amount:      *req.Amount,
		Principal:   *req.Principal,
		Interest:    *req.Interest,
	})
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// ListValuations handles GET /api/v1/properties/:id/valuations, newest first.
func (h *AssetHandler) ListValuations(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.valuations.ListByProperty(c.Request.Context(), middleware.GetAccountID(c), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list valuations")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toValuationResponse)))
}

// LatestValuation handles GET /api/v1/properties/:id/valuations/latest. A
// property with no valuations answers 200 with a null body.
func (h *AssetHandler) LatestValuation(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	v, err := h.valuations.Latest(c.Request.Context(), middleware.GetAccountID(c), propertyID)
	if err != nil {
		respondError(c, err, "Failed to load latest valuation")
		return
	}
	if v == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, toValuationResponse(v))
}

// CreateValuation handles POST /api/v1/properties/:id/valuations.
func (h *AssetHandler) CreateValuation(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ValuationRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("valuationDate", req.ValuationDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.valuations.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Valuation{
		PropertyID:     propertyID,
		ValuationDate:  date,
		EstimatedValue: *req.EstimatedValue,
		Type:           models.ValuationType(strings.ToUpper(req.Type)),
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create valuation")
		return
	}

	c.JSON(http.StatusCreated, toValuationResponse(created))
}

// ListUnits handles GET /api/v1/properties/:id/units.
func (h *AssetHandler) ListUnits(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.units.ListByProperty(c.Request.Context(), middleware.GetAccountID(c), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list units")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toUnitResponse)))
}

// CreateUnit handles POST /api/v1/properties/:id/units.
func (h *AssetHandler) CreateUnit(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UnitRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.units.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Unit{
		PropertyID: propertyID,
		UnitNumber: req.UnitNumber,
		Floor:      req.Floor,
		Rooms:      req.Rooms,
	})
	if err != nil {
		respondError(c, err, "Failed to create unit")
		return
	}

	c.JSON(http.StatusCreated, toUnitResponse(created))
}

// ListOwners handles GET /api/v1/properties/:id/owners.
func (h *AssetHandler) ListOwners(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.owners.ListByProperty(c.Request.Context(), middleware.GetAccountID(c), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list property owners")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toOwnershipResponse)))
}

// AssignOwner handles POST /api/v1/properties/:id/owners. Assigning the same
// owner twice is a 409.
func (h *AssetHandler) AssignOwner(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req OwnershipRequest
	if !bindJSON(c, &req) {
		return
	}

	ownership, err := h.owners.AssignToProperty(c.Request.Context(), middleware.GetAccountID(c),
		propertyID, uuid.MustParse(req.OwnerID), *req.SharePercent)
	if err != nil {
		respondError(c, err, "Failed to assign owner")
		return
	}

	c.JSON(http.StatusCreated, toOwnershipResponse(ownership))
}
