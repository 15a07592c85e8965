package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/natovichat/rent-management-app/api/internal/export"
	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

// SeriesResponse is a period series with its bucket size.
type SeriesResponse struct {
	GroupBy string           `json:"groupBy"`
	Periods []PeriodResponse `json:"periods"`
}

// FinancialHandler serves the account-wide financial reports. All of them
// accept propertyId, startDate and endDate except the portfolio dashboard.
type FinancialHandler struct {
	financial services.FinancialService
}

// NewFinancialHandler creates a new FinancialHandler instance.
func NewFinancialHandler(financial services.FinancialService) *FinancialHandler {
	return &FinancialHandler{financial: financial}
}

// Summary handles GET /api/v1/financials/summary.
func (h *FinancialHandler) Summary(c *gin.Context) {
	f, err := financialFilter(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	summary, err := h.financial.Summary(c.Request.Context(), middleware.GetAccountID(c), f)
	if err != nil {
		respondError(c, err, "Failed to compute financial summary")
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// ExpenseBreakdown handles GET /api/v1/financials/breakdown/expenses.
func (h *FinancialHandler) ExpenseBreakdown(c *gin.Context) {
	f, err := financialFilter(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	groups, err := h.financial.ExpenseBreakdown(c.Request.Context(), middleware.GetAccountID(c), f)
	if err != nil {
		respondError(c, err, "Failed to compute expense breakdown")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(groups, toCategoryResponse)))
}

// IncomeBreakdown handles GET /api/v1/financials/breakdown/income.
func (h *FinancialHandler) IncomeBreakdown(c *gin.Context) {
	f, err := financialFilter(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	groups, err := h.financial.IncomeBreakdown(c.Request.Context(), middleware.GetAccountID(c), f)
	if err != nil {
		respondError(c, err, "Failed to compute income breakdown")
		return
	}

	c.JSON(http.StatusOK, listOf(mapAll(groups, toCategoryResponse)))
}

func (h *FinancialHandler) series(c *gin.Context) (finance.Granularity, []finance.PeriodTotal, bool) {
	gran, err := finance.ParseGranularity(c.Query("groupBy"))
	if err != nil {
		respondError(c, err, "")
		return "", nil, false
	}
	f, err := financialFilter(c)
	if err != nil {
		respondError(c, err, "")
		return "", nil, false
	}

	periods, err := h.financial.Series(c.Request.Context(), middleware.GetAccountID(c), f, gran)
	if err != nil {
		respondError(c, err, "Failed to compute period series")
		return "", nil, false
	}
	return gran, periods, true
}

// Series handles GET /api/v1/financials/series?groupBy=year|quarter|month.
func (h *FinancialHandler) Series(c *gin.Context) {
	gran, periods, ok := h.series(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SeriesResponse{
		GroupBy: string(gran),
		Periods: mapAll(periods, toPeriodResponse),
	})
}

// SeriesChart handles GET /api/v1/financials/series/chart and answers a PNG.
// A series with fewer than two periods is a 400.
func (h *FinancialHandler) SeriesChart(c *gin.Context) {
	gran, periods, ok := h.series(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSeriesChart(&buf, "Income and expenses by "+string(gran), periods); err != nil {
		respondError(c, err, "Failed to render chart")
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Portfolio handles GET /api/v1/dashboard/portfolio.
func (h *FinancialHandler) Portfolio(c *gin.Context) {
	summary, err := h.financial.PortfolioSummary(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err, "Failed to build portfolio dashboard")
		return
	}

	c.JSON(http.StatusOK, toPortfolioResponse(summary))
}
