package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// PropertyHandler handles property CRUD and the per-property dashboard.
type PropertyHandler struct {
	properties services.PropertyService
	financial  services.FinancialService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(properties services.PropertyService, financial services.FinancialService) *PropertyHandler {
	return &PropertyHandler{properties: properties, financial: financial}
}

// PropertyRequest is the body of POST /properties.
type PropertyRequest struct {
	Address          string           `json:"address" binding:"required,max=500"`
	City             string           `json:"city" binding:"max=200"`
	Country          string           `json:"country" binding:"max=100"`
	Type             string           `json:"type" binding:"required"`
	EstimatedValue   *decimal.Decimal `json:"estimatedValue"`
	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice"`
	AcquisitionDate  *string          `json:"acquisitionDate" binding:"omitempty,datetime=2006-01-02"`
	Notes            string           `json:"notes" binding:"max=2000"`
}

// PropertyPatchRequest is the body of PATCH /properties/:id. Absent fields
// are left unchanged.
type PropertyPatchRequest struct {
	Address          *string          `json:"address" binding:"omitempty,min=1,max=500"`
	City             *string          `json:"city" binding:"omitempty,max=200"`
	Country          *string          `json:"country" binding:"omitempty,max=100"`
	Type             *string          `json:"type"`
	EstimatedValue   *decimal.Decimal `json:"estimatedValue"`
	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice"`
	AcquisitionDate  *string          `json:"acquisitionDate" binding:"omitempty,datetime=2006-01-02"`
	Notes            *string          `json:"notes" binding:"omitempty,max=2000"`
}

// List handles GET /api/v1/properties?search=&type=&limit=&offset=.
func (h *PropertyHandler) List(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	list, err := h.properties.List(c.Request.Context(), middleware.GetAccountID(c), models.PropertyQuery{
		Search: c.Query("search"),
		Type:   models.PropertyType(strings.ToUpper(c.Query("type"))),
		Page:   p,
	})
	if err != nil {
		respondError(c, err, "Failed to list properties")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toPropertyResponse)))
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	acquired, err := parseOptionalDate("acquisitionDate", req.AcquisitionDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.properties.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Property{
		Address:          req.Address,
		City:             req.City,
		Country:          req.Country,
		Type:             models.PropertyType(strings.ToUpper(req.Type)),
		EstimatedValue:   req.EstimatedValue,
		AcquisitionPrice: req.AcquisitionPrice,
		AcquisitionDate:  acquired,
		Notes:            req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, toPropertyResponse(created))
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.properties.Get(c.Request.Context(), middleware.GetAccountID(c), id)
	if err != nil {
		respondError(c, err, "Failed to load property")
		return
	}

	c.JSON(http.StatusOK, toPropertyResponse(p))
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PropertyPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	acquired, err := parseOptionalDate("acquisitionDate", req.AcquisitionDate)
	if err != nil {
		respondError(c, err, "")
		return
	}
	patch := models.PropertyPatch{
		Address:          req.Address,
		City:             req.City,
		Country:          req.Country,
		EstimatedValue:   req.EstimatedValue,
		AcquisitionPrice: req.AcquisitionPrice,
		AcquisitionDate:  acquired,
		Notes:            req.Notes,
	}
	if req.Type != nil {
		t := models.PropertyType(strings.ToUpper(*req.Type))
		patch.Type = &t
	}

	updated, err := h.properties.Update(c.Request.Context(), middleware.GetAccountID(c), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, toPropertyResponse(updated))
}

// Delete handles DELETE /api/v1/properties/:id. Dependent records go with it.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.properties.Delete(c.Request.Context(), middleware.GetAccountID(c), id); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}

	c.Status(http.StatusNoContent)
}

// Financials handles GET /api/v1/properties/:id/financials?startDate=&endDate=.
func (h *PropertyHandler) Financials(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := financialFilter(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	dashboard, err := h.financial.PropertyDashboard(c.Request.Context(), middleware.GetAccountID(c), id, f)
	if err != nil {
		respondError(c, err, "Failed to build property dashboard")
		return
	}

	c.JSON(http.StatusOK, toPropertyDashboardResponse(dashboard))
}
