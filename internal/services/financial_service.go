package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/repository"
)

// PropertyDashboard bundles one property's figures for the dashboard view.
type PropertyDashboard struct {
	Property        models.Property
	Summary         finance.Summary
	PropertyValue   decimal.Decimal
	ROI             decimal.Decimal
	LatestValuation *models.Valuation
	Expenses        []models.Expense
	Income          []models.Income
}

// PortfolioSummary is the account-wide dashboard.
type PortfolioSummary struct {
	PropertyCount int
	TotalValue    decimal.Decimal
	TotalUnits    int
	OccupiedUnits int
	OccupancyRate decimal.Decimal
	MortgageDebt  decimal.Decimal
	Equity        decimal.Decimal
	Summary       finance.Summary
	ROI           decimal.Decimal
}

// FinancialService defines the interface for the financial reports.
// Independent reads within one call run concurrently; the first failure
// cancels the rest and is returned.
type FinancialService interface {
	// Summary totals income and expenses over the filter. Each side applies
	// the date bounds to its own date column. Empty scopes total zero.
	// Returns error for database failures.
	Summary(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (finance.Summary, error)

	// ExpenseBreakdown totals expenses per type, largest first.
	// Returns empty slice if there are no expenses in scope (not an error).
	ExpenseBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error)

	// IncomeBreakdown totals income per type, largest first.
	// Returns empty slice if there is no income in scope (not an error).
	IncomeBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error)

	// PropertyDashboard gathers one property's records, totals, value and ROI.
	// Returns ErrPropertyNotFound for a property the account does not own,
	// never an empty dashboard.
	// Returns error for database failures.
	PropertyDashboard(ctx context.Context, accountID, propertyID uuid.UUID, f models.FinancialFilter) (*PropertyDashboard, error)

	// Series buckets income and expenses by year, quarter or month.
	// Periods with no records are omitted.
	Series(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter, g finance.Granularity) ([]finance.PeriodTotal, error)

	// PortfolioSummary reports account-wide value, occupancy, debt and ROI.
	// An account with no properties gets a zeroed summary.
	PortfolioSummary(ctx context.Context, accountID uuid.UUID) (*PortfolioSummary, error)
}

// financialService is the concrete implementation of FinancialService.
type financialService struct {
	properties repository.PropertyRepository
	expenses   repository.ExpenseRepository
	income     repository.IncomeRepository
	valuations repository.ValuationRepository
	mortgages  repository.MortgageRepository
	units      repository.UnitRepository
	log        *logger.Logger
}

// FinancialRepositories groups the read models the reports draw on.
type FinancialRepositories struct {
	Properties repository.PropertyRepository
	Expenses   repository.ExpenseRepository
	Income     repository.IncomeRepository
	Valuations repository.ValuationRepository
	Mortgages  repository.MortgageRepository
	Units      repository.UnitRepository
}

// NewFinancialService creates a new instance of FinancialService.
func NewFinancialService(repos FinancialRepositories, log *logger.Logger) FinancialService {
	return &financialService{
		properties: repos.Properties,
		expenses:   repos.Expenses,
		income:     repos.Income,
		valuations: repos.Valuations,
		mortgages:  repos.Mortgages,
		units:      repos.Units,
		log:        log,
	}
}

// Summary sums both sides concurrently and nets them.
func (s *financialService) Summary(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) (finance.Summary, error) {
	var incomeSum, expenseSum decimal.NullDecimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomeSum, err = s.income.Sum(gctx, accountID, f)
		return err
	})
	g.Go(func() error {
		var err error
		expenseSum, err = s.expenses.Sum(gctx, accountID, f)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to compute financial summary", err, map[string]interface{}{
			"account_id": accountID,
		})
		return finance.Summary{}, fmt.Errorf("failed to compute summary: %w", err)
	}

	return finance.Summarize(finance.Coalesce(incomeSum), finance.Coalesce(expenseSum)), nil
}

// ExpenseBreakdown groups expense entries by type.
func (s *financialService) ExpenseBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error) {
	entries, err := s.expenses.Entries(ctx, accountID, f)
	if err != nil {
		s.log.Error("Failed to query expense entries", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to compute expense breakdown: %w", err)
	}
	return finance.Breakdown(entries), nil
}

// IncomeBreakdown groups income entries by type.
func (s *financialService) IncomeBreakdown(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter) ([]finance.CategoryTotal, error) {
	entries, err := s.income.Entries(ctx, accountID, f)
	if err != nil {
		s.log.Error("Failed to query income entries", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to compute income breakdown: %w", err)
	}
	return finance.Breakdown(entries), nil
}

// PropertyDashboard checks ownership first, then runs the five reads for the
// property concurrently. The latest valuation, when present, overrides the
// property's own estimated value.
func (s *financialService) PropertyDashboard(ctx context.Context, accountID, propertyID uuid.UUID, f models.FinancialFilter) (*PropertyDashboard, error) {
	// Verify the property belongs to the account
	property, err := s.properties.FindByID(ctx, accountID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	// Scope every read to this property
	f.PropertyID = &propertyID
	q := models.TransactionQuery{FinancialFilter: f, Page: models.Page{Limit: models.MaxPageSize}}

	var (
		expenses              []models.Expense
		income                []models.Income
		expenseSum, incomeSum decimal.NullDecimal
		latest                *models.Valuation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.expenses.List(gctx, accountID, q)
		return err
	})
	g.Go(func() (err error) {
		income, err = s.income.List(gctx, accountID, q)
		return err
	})
	g.Go(func() (err error) {
		expenseSum, err = s.expenses.Sum(gctx, accountID, f)
		return err
	})
	g.Go(func() (err error) {
		incomeSum, err = s.income.Sum(gctx, accountID, f)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.valuations.Latest(gctx, accountID, propertyID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to assemble property dashboard", err, map[string]interface{}{
			"account_id":  accountID,
			"property_id": propertyID,
		})
		return nil, fmt.Errorf("failed to assemble property dashboard: %w", err)
	}

	summary := finance.Summarize(finance.Coalesce(incomeSum), finance.Coalesce(expenseSum))

	// Prefer the latest valuation over the stored estimate
	value := decimal.Zero
	switch {
	case latest != nil:
		value = latest.EstimatedValue
	case property.EstimatedValue != nil:
		value = *property.EstimatedValue
	}

	return &PropertyDashboard{
		Property:        *property,
		Summary:         summary,
		PropertyValue:   value,
		ROI:             finance.ROI(summary.Net, value),
		LatestValuation: latest,
		Expenses:        expenses,
		Income:          income,
	}, nil
}

// Series fetches dated entries for both sides and buckets them.
func (s *financialService) Series(ctx context.Context, accountID uuid.UUID, f models.FinancialFilter, gran finance.Granularity) ([]finance.PeriodTotal, error) {
	var incomeEntries, expenseEntries []models.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomeEntries, err = s.income.Entries(gctx, accountID, f)
		return err
	})
	g.Go(func() (err error) {
		expenseEntries, err = s.expenses.Entries(gctx, accountID, f)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to query period series", err, map[string]interface{}{
			"account_id": accountID,
			"group_by":   string(gran),
		})
		return nil, fmt.Errorf("failed to compute series: %w", err)
	}

	return finance.GroupByPeriod(incomeEntries, expenseEntries, gran), nil
}

// PortfolioSummary reads the account totals concurrently. Mortgage debt is
// the remaining balance of each active mortgage.
func (s *financialService) PortfolioSummary(ctx context.Context, accountID uuid.UUID) (*PortfolioSummary, error) {
	var (
		totals                repository.PortfolioTotals
		occupancy             models.OccupancyCounts
		positions             []repository.LoanPosition
		incomeSum, expenseSum decimal.NullDecimal
	)
	all := models.FinancialFilter{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.properties.Totals(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		occupancy, err = s.units.Occupancy(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		positions, err = s.mortgages.ActivePositions(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		incomeSum, err = s.income.Sum(gctx, accountID, all)
		return err
	})
	g.Go(func() (err error) {
		expenseSum, err = s.expenses.Sum(gctx, accountID, all)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to assemble portfolio summary", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, fmt.Errorf("failed to assemble portfolio summary: %w", err)
	}

	// Remaining principal across active mortgages
	debt := decimal.Zero
	for _, p := range positions {
		debt = debt.Add(finance.RemainingBalance(p.LoanAmount, []decimal.Decimal{p.PrincipalPaid}))
	}

	summary := finance.Summarize(finance.Coalesce(incomeSum), finance.Coalesce(expenseSum))

	return &PortfolioSummary{
		PropertyCount: totals.PropertyCount,
		TotalValue:    totals.TotalValue,
		TotalUnits:    occupancy.TotalUnits,
		OccupiedUnits: occupancy.OccupiedUnits,
		OccupancyRate: finance.OccupancyRate(occupancy.OccupiedUnits, occupancy.TotalUnits),
		MortgageDebt:  debt,
		Equity:        totals.TotalValue.Sub(debt),
		Summary:       summary,
		ROI:           finance.ROI(summary.Net, totals.TotalValue),
	}, nil
}
