package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/natovichat/rent-management-app/api/internal/middleware"
)

// Handlers is the full set of HTTP handlers the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Properties *PropertyHandler
	Assets     *AssetHandler
	Expenses   *ExpenseHandler
	Income     *IncomeHandler
	Leasing    *LeasingHandler
	Financial  *FinancialHandler
}

// RegisterRoutes mounts health checks at the root and the API under /api/v1.
// Everything in /api/v1 except /info requires an account.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)
	router.GET("/health/ready", h.Health.Ready)

	v1 := router.Group("/api/v1")
	v1.GET("/info", h.Health.Info)

	api := v1.Group("", middleware.Account())
	{
		properties := api.Group("/properties")
		properties.GET("", h.Properties.List)
		properties.POST("", h.Properties.Create)
		properties.GET("/:id", h.Properties.Get)
		properties.PATCH("/:id", h.Properties.Update)
		properties.DELETE("/:id", h.Properties.Delete)
		properties.GET("/:id/financials", h.Properties.Financials)
		properties.GET("/:id/units", h.Assets.ListUnits)
		properties.POST("/:id/units", h.Assets.CreateUnit)
		properties.GET("/:id/valuations", h.Assets.ListValuations)
		properties.POST("/:id/valuations", h.Assets.CreateValuation)
		properties.GET("/:id/valuations/latest", h.Assets.LatestValuation)
		properties.GET("/:id/mortgages", h.Assets.ListMortgages)
		properties.POST("/:id/mortgages", h.Assets.CreateMortgage)
		properties.GET("/:id/owners", h.Assets.ListOwners)
		properties.POST("/:id/owners", h.Assets.AssignOwner)

		mortgages := api.Group("/mortgages")
		mortgages.GET("/:id", h.Assets.GetMortgage)
		mortgages.DELETE("/:id", h.Assets.DeleteMortgage)
		mortgages.POST("/:id/payments", h.Assets.AddPayment)

		expenses := api.Group("/expenses")
		expenses.GET("", h.Expenses.List)
		expenses.POST("", h.Expenses.Create)
		expenses.GET("/export", h.Expenses.Export)
		expenses.POST("/import", h.Expenses.Import)
		expenses.GET("/:id", h.Expenses.Get)
		expenses.PATCH("/:id", h.Expenses.Update)
		expenses.DELETE("/:id", h.Expenses.Delete)

		income := api.Group("/income")
		income.GET("", h.Income.List)
		income.POST("", h.Income.Create)
		income.GET("/export", h.Income.Export)
		income.GET("/:id", h.Income.Get)
		income.PATCH("/:id", h.Income.Update)
		income.DELETE("/:id", h.Income.Delete)

		api.GET("/tenants", h.Leasing.ListTenants)
		api.POST("/tenants", h.Leasing.CreateTenant)
		api.GET("/leases", h.Leasing.ListLeases)
		api.POST("/leases", h.Leasing.CreateLease)
		api.GET("/owners", h.Leasing.ListOwners)
		api.POST("/owners", h.Leasing.CreateOwner)

		financials := api.Group("/financials")
		financials.GET("/summary", h.Financial.Summary)
		financials.GET("/breakdown/expenses", h.Financial.ExpenseBreakdown)
		financials.GET("/breakdown/income", h.Financial.IncomeBreakdown)
		financials.GET("/series", h.Financial.Series)
		financials.GET("/series/chart", h.Financial.SeriesChart)

		api.GET("/dashboard/portfolio", h.Financial.Portfolio)
	}
}
