package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apierrors "github.com/natovichat/rent-management-app/api/internal/errors"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// ContactRequest is the body of POST /tenants and POST /owners.
type ContactRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"max=50"`
}

// LeaseRequest is the body of POST /leases.
type LeaseRequest struct {
	UnitID      string           `json:"unitId" binding:"required,uuid"`
	TenantID    string           `json:"tenantId" binding:"required,uuid"`
	StartDate   string           `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string           `json:"endDate" binding:"required,datetime=2006-01-02"`
	MonthlyRent *decimal.Decimal `json:"monthlyRent" binding:"required"`
	Status      string           `json:"status"`
}

// LeasingHandler handles tenants, leases and owners.
type LeasingHandler struct {
	tenants services.TenantService
	leases  services.LeaseService
	owners  services.OwnerService
}

// NewLeasingHandler creates a new LeasingHandler instance.
func NewLeasingHandler(tenants services.TenantService, leases services.LeaseService, owners services.OwnerService) *LeasingHandler {
	return &LeasingHandler{tenants: tenants, leases: leases, owners: owners}
}

// ListTenants handles GET /api/v1/tenants.
func (h *LeasingHandler) ListTenants(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	list, err := h.tenants.List(c.Request.Context(), middleware.GetAccountID(c), p)
	if err != nil {
		respondError(c, err, "Failed to list tenants")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toTenantResponse)))
}

// CreateTenant handles POST /api/v1/tenants.
func (h *LeasingHandler) CreateTenant(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.tenants.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Tenant{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, toTenantResponse(created))
}

// ListLeases handles GET /api/v1/leases?unitId=.
func (h *LeasingHandler) ListLeases(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	var unitID *uuid.UUID
	if raw := c.Query("unitId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, "unitId must be a UUID", nil)
			return
		}
		unitID = &id
	}

	list, err := h.leases.List(c.Request.Context(), middleware.GetAccountID(c), unitID, p)
	if err != nil {
		respondError(c, err, "Failed to list leases")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toLeaseResponse)))
}

// CreateLease handles POST /api/v1/leases.
func (h *LeasingHandler) CreateLease(c *gin.Context) {
	var req LeaseRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		respondError(c, err, "")
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.leases.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Lease{
		UnitID:      uuid.MustParse(req.UnitID),
		TenantID:    uuid.MustParse(req.TenantID),
		StartDate:   start,
		EndDate:     end,
		MonthlyRent: *req.MonthlyRent,
		Status:      models.LeaseStatus(strings.ToUpper(req.Status)),
	})
	if err != nil {
		respondError(c, err, "Failed to create lease")
		return
	}

	c.JSON(http.StatusCreated, toLeaseResponse(created))
}

// ListOwners handles GET /api/v1/owners.
func (h *LeasingHandler) ListOwners(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	list, err := h.owners.List(c.Request.Context(), middleware.GetAccountID(c), p)
	if err != nil {
		respondError(c, err, "Failed to list owners")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(list, toOwnerResponse)))
}

// CreateOwner handles POST /api/v1/owners.
func (h *LeasingHandler) CreateOwner(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.owners.Create(c.Request.Context(), middleware.GetAccountID(c), &models.Owner{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err, "Failed to create owner")
		return
	}

	c.JSON(http.StatusCreated, toOwnerResponse(created))
}
