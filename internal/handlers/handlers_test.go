package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/natovichat/rent-management-app/api/internal/errors"
	"github.com/natovichat/rent-management-app/api/internal/finance"
	"github.com/natovichat/rent-management-app/api/internal/logger"
	"github.com/natovichat/rent-management-app/api/internal/middleware"
	"github.com/natovichat/rent-management-app/api/internal/models"
	"github.com/natovichat/rent-management-app/api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	properties *MockPropertyService
	expenses   *MockExpenseService
	income     *MockIncomeService
	imports    *MockImportService
	financial  *MockFinancialService
	mortgages  *MockMortgageService
	valuations *MockValuationService
	units      *MockUnitService
	tenants    *MockTenantService
	leases     *MockLeaseService
	owners     *MockOwnerService

	accountID uuid.UUID
	router    *gin.Engine
}

func newAPIFixture() *apiFixture {
	f := &apiFixture{
		properties: new(MockPropertyService),
		expenses:   new(MockExpenseService),
		income:     new(MockIncomeService),
		imports:    new(MockImportService),
		financial:  new(MockFinancialService),
		mortgages:  new(MockMortgageService),
		valuations: new(MockValuationService),
		units:      new(MockUnitService),
		tenants:    new(MockTenantService),
		leases:     new(MockLeaseService),
		owners:     new(MockOwnerService),
		accountID:  uuid.New(),
	}

	log := logger.New("test")
	f.router = gin.New()
	f.router.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	RegisterRoutes(f.router, Handlers{
		Health:     NewHealthHandler(stubPinger{}, "test"),
		Properties: NewPropertyHandler(f.properties, f.financial),
		Assets:     NewAssetHandler(f.mortgages, f.valuations, f.units, f.owners),
		Expenses:   NewExpenseHandler(f.expenses, f.imports, 1<<10),
		Income:     NewIncomeHandler(f.income),
		Leasing:    NewLeasingHandler(f.tenants, f.leases, f.owners),
		Financial:  NewFinancialHandler(f.financial),
	})
	return f
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	return f.doWith(method, path, strings.NewReader(body), "application/json")
}

func (f *apiFixture) doWith(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.AccountIDHeader, f.accountID.String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAPI_RequiresAccount(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrUnauthorized, decodeError(t, w).Code)
	f.properties.AssertNotCalled(t, "List")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "info needs no account")
}

func TestPropertyGet_ForeignIsNotFound(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.properties.On("Get", mock.Anything, f.accountID, id).
		Return(nil, fmt.Errorf("%w: %s", services.ErrPropertyNotFound, id))

	w := f.do(http.MethodGet, "/api/v1/properties/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierrors.ErrNotFound, decodeError(t, w).Code)
}

func TestPropertyGet_MalformedID(t *testing.T) {
	f := newAPIFixture()

	w := f.do(http.MethodGet, "/api/v1/properties/42", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.properties.AssertNotCalled(t, "Get")
}

func TestPropertyCreate(t *testing.T) {
	f := newAPIFixture()
	value := dec("2500000")
	f.properties.On("Create", mock.Anything, f.accountID, mock.AnythingOfType("*models.Property")).
		Return(&models.Property{ID: uuid.New(), Address: "3 Rothschild Blvd", Type: models.PropertyResidential, EstimatedValue: &value}, nil)

	w := f.do(http.MethodPost, "/api/v1/properties",
		`{"address":"3 Rothschild Blvd","city":"Tel Aviv","type":"residential","estimatedValue":2500000,"acquisitionDate":"2019-04-01"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got PropertyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.EstimatedValue)
	assert.Equal(t, 2500000.0, *got.EstimatedValue)

	sent := f.properties.Calls[0].Arguments.Get(2).(*models.Property)
	assert.Equal(t, models.PropertyResidential, sent.Type)
	require.NotNil(t, sent.AcquisitionDate)
	assert.Equal(t, day("2019-04-01"), *sent.AcquisitionDate)
}

func TestPropertyCreate_MissingAddress(t *testing.T) {
	f := newAPIFixture()

	w := f.do(http.MethodPost, "/api/v1/properties", `{"type":"LAND"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, apierrors.ErrValidation, detail.Code)
	assert.Contains(t, detail.Details, "Address")
	f.properties.AssertNotCalled(t, "Create")
}

func TestPropertyDelete(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.properties.On("Delete", mock.Anything, f.accountID, id).Return(nil)

	w := f.do(http.MethodDelete, "/api/v1/properties/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExpenseCreate_NegativeAmountRejected(t *testing.T) {
	f := newAPIFixture()
	propertyID := uuid.New()
	f.expenses.On("Create", mock.Anything, f.accountID, mock.AnythingOfType("*models.Expense")).
		Return(nil, fmt.Errorf("%w: amount must be greater than 0", services.ErrInvalidInput))

	w := f.do(http.MethodPost, "/api/v1/expenses",
		`{"propertyId":"`+propertyID.String()+`","expenseDate":"2024-03-01","amount":-100,"type":"maintenance"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "amount must be greater than 0")

	sent := f.expenses.Calls[0].Arguments.Get(2).(*models.Expense)
	assert.True(t, sent.Amount.Equal(dec("-100")))
	assert.Equal(t, models.ExpenseMaintenance, sent.Type)
	assert.Equal(t, propertyID, sent.PropertyID)
}

func TestExpenseCreate_BadDateIsValidationError(t *testing.T) {
	f := newAPIFixture()

	w := f.do(http.MethodPost, "/api/v1/expenses",
		`{"propertyId":"`+uuid.NewString()+`","expenseDate":"01/03/2024","amount":100,"type":"TAX"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrValidation, decodeError(t, w).Code)
	f.expenses.AssertNotCalled(t, "Create")
}

func TestExpenseList_Filters(t *testing.T) {
	f := newAPIFixture()
	propertyID := uuid.New()
	f.expenses.On("List", mock.Anything, f.accountID, mock.MatchedBy(func(q models.TransactionQuery) bool {
		return q.PropertyID != nil && *q.PropertyID == propertyID &&
			q.StartDate.Equal(day("2024-01-01")) && q.EndDate.Equal(day("2024-03-31")) &&
			q.Type == "TAX" && q.Page.Limit == 10 && q.Page.Offset == 20
	})).Return([]models.Expense{{ID: uuid.New(), PropertyID: propertyID, Date: day("2024-02-10"), Amount: dec("1234.5"), Type: models.ExpenseTax}}, nil)

	w := f.do(http.MethodGet, "/api/v1/expenses?propertyId="+propertyID.String()+
		"&startDate=2024-01-01&endDate=2024-03-31&type=tax&limit=10&offset=20", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got ListResponse[ExpenseResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 1, got.Count)
	assert.Equal(t, 1234.5, got.Items[0].Amount)
	assert.Equal(t, "2024-02-10", got.Items[0].ExpenseDate)
}

func TestExpenseList_InvalidRange(t *testing.T) {
	f := newAPIFixture()

	for _, query := range []string{
		"startDate=2024-06-01&endDate=2024-05-01",
		"startDate=June",
		"propertyId=abc",
		"limit=-1",
	} {
		w := f.do(http.MethodGet, "/api/v1/expenses?"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	f.expenses.AssertNotCalled(t, "List")
}

func TestExpenseUpdate_PartialPatch(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.expenses.On("Update", mock.Anything, f.accountID, id, mock.MatchedBy(func(p models.ExpensePatch) bool {
		return p.Amount != nil && p.Amount.Equal(dec("80")) && p.Type == nil && p.Date == nil && p.PropertyID == nil
	})).Return(&models.Expense{ID: id, Amount: dec("80"), Type: models.ExpenseOther}, nil)

	w := f.do(http.MethodPatch, "/api/v1/expenses/"+id.String(), `{"amount":80}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestExpenseExport_CSV(t *testing.T) {
	f := newAPIFixture()
	f.expenses.On("List", mock.Anything, f.accountID, mock.MatchedBy(func(q models.TransactionQuery) bool {
		return q.Page.Offset == 0 && q.Page.Limit == models.MaxPageSize
	})).Return([]models.Expense{{ID: uuid.New(), PropertyID: uuid.New(), Date: day("2024-01-05"), Amount: dec("99.9"), Type: models.ExpenseUtilities}}, nil)

	w := f.do(http.MethodGet, "/api/v1/expenses/export?format=csv", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="expenses.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "2024-01-05,UTILITIES,99.90")
}

func TestExpenseExport_UnknownFormat(t *testing.T) {
	f := newAPIFixture()

	w := f.do(http.MethodGet, "/api/v1/expenses/export?format=pdf", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.expenses.AssertNotCalled(t, "List")
}

func TestExpenseImport_RawBody(t *testing.T) {
	f := newAPIFixture()
	var uploaded string
	f.imports.On("ImportExpenses", mock.Anything, f.accountID, mock.Anything, false).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(2).(io.Reader))
			uploaded = string(data)
		}).
		Return(&services.ImportReport{Total: 2, Failed: 1, Aborted: true, Errors: []services.RowError{{Row: 3, Message: "amount must be greater than 0"}}}, nil)

	csv := "propertyId,date,amount,type\n" + uuid.NewString() + ",2024-01-01,10,TAX\n"
	w := f.doWith(http.MethodPost, "/api/v1/expenses/import?skipErrors=false", strings.NewReader(csv), "text/csv")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, csv, uploaded)

	var report services.ImportReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Aborted)
	assert.Equal(t, 3, report.Errors[0].Row)
}

func TestExpenseImport_Multipart(t *testing.T) {
	f := newAPIFixture()
	var uploaded string
	f.imports.On("ImportExpenses", mock.Anything, f.accountID, mock.Anything, true).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(2).(io.Reader))
			uploaded = string(data)
		}).
		Return(&services.ImportReport{Total: 0, Errors: []services.RowError{}}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "expenses.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("propertyId,date,amount,type\n"))
	require.NoError(t, mw.Close())

	w := f.doWith(http.MethodPost, "/api/v1/expenses/import", &body, mw.FormDataContentType())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "propertyId,date,amount,type\n", uploaded)
}

func TestExpenseImport_BadSkipErrors(t *testing.T) {
	f := newAPIFixture()

	w := f.doWith(http.MethodPost, "/api/v1/expenses/import?skipErrors=maybe", strings.NewReader(""), "text/csv")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.imports.AssertNotCalled(t, "ImportExpenses")
}

func TestIncomeGet_UnexpectedErrorIsGeneric500(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.income.On("Get", mock.Anything, f.accountID, id).Return(nil, errors.New("conn reset"))

	w := f.do(http.MethodGet, "/api/v1/income/"+id.String(), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to load income", decodeError(t, w).Message)
	assert.NotContains(t, w.Body.String(), "conn reset")
}

func TestMortgageGet_RemainingBalance(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.mortgages.On("Get", mock.Anything, f.accountID, id).Return(&services.MortgageDetails{
		Mortgage: models.Mortgage{ID: id, LoanAmount: dec("1000000"), InterestRate: dec("3.25"), StartDate: day("2020-01-01"), Status: models.MortgageActive},
		Payments: []models.MortgagePayment{
			{PaymentDate: day("2020-02-01"), Amount: dec("5000"), Principal: dec("8000"), Interest: dec("0")},
			{PaymentDate: day("2020-03-01"), Amount: dec("5000"), Principal: dec("8100"), Interest: dec("0")},
		},
		PrincipalPaid:    dec("16100"),
		RemainingBalance: dec("983900"),
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/mortgages/"+id.String(), "")

	require.Equal(t, http.StatusOK, w.Code)
	var got MortgageDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 983900.0, got.RemainingBalance)
	assert.Equal(t, 3.25, got.InterestRate)
	assert.Len(t, got.Payments, 2)
	assert.Nil(t, got.EndDate)
}

func TestAddPayment_UnknownMortgage(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.mortgages.On("AddPayment", mock.Anything, f.accountID, id, mock.Anything).
		Return(nil, fmt.Errorf("%w: %s", services.ErrMortgageNotFound, id))

	w := f.do(http.MethodPost, "/api/v1/mortgages/"+id.String()+"/payments",
		`{"paymentDate":"2024-01-01","amount":5000,"principal":4000,"interest":1000}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignOwner_DuplicateIsConflict(t *testing.T) {
	f := newAPIFixture()
	propertyID, ownerID := uuid.New(), uuid.New()
	f.owners.On("AssignToProperty", mock.Anything, f.accountID, propertyID, ownerID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("50"))
	})).Return(nil, services.ErrOwnershipExists)

	w := f.do(http.MethodPost, "/api/v1/properties/"+propertyID.String()+"/owners",
		`{"ownerId":"`+ownerID.String()+`","sharePercent":50}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrConflict, decodeError(t, w).Code)
}

func TestCreateUnit_DuplicateIsConflict(t *testing.T) {
	f := newAPIFixture()
	propertyID := uuid.New()
	f.units.On("Create", mock.Anything, f.accountID, mock.Anything).
		Return(nil, fmt.Errorf("%w: 4", services.ErrUnitExists))

	w := f.do(http.MethodPost, "/api/v1/properties/"+propertyID.String()+"/units", `{"unitNumber":"4","floor":2}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLatestValuation_NoneIsNull(t *testing.T) {
	f := newAPIFixture()
	propertyID := uuid.New()
	f.valuations.On("Latest", mock.Anything, f.accountID, propertyID).Return(nil, nil)

	w := f.do(http.MethodGet, "/api/v1/properties/"+propertyID.String()+"/valuations/latest", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestCreateLease_EndBeforeStart(t *testing.T) {
	f := newAPIFixture()
	f.leases.On("Create", mock.Anything, f.accountID, mock.Anything).
		Return(nil, fmt.Errorf("%w: endDate must not be before startDate", services.ErrInvalidInput))

	w := f.do(http.MethodPost, "/api/v1/leases", `{"unitId":"`+uuid.NewString()+`","tenantId":"`+uuid.NewString()+
		`","startDate":"2024-06-01","endDate":"2024-05-31","monthlyRent":4000}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLeases_ByUnit(t *testing.T) {
	f := newAPIFixture()
	unitID := uuid.New()
	f.leases.On("List", mock.Anything, f.accountID, &unitID, models.Page{Limit: models.DefaultPageSize}).
		Return([]models.Lease{{ID: uuid.New(), UnitID: unitID, MonthlyRent: dec("4200"), Status: models.LeaseActive}}, nil)

	w := f.do(http.MethodGet, "/api/v1/leases?unitId="+unitID.String(), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got ListResponse[LeaseResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4200.0, got.Items[0].MonthlyRent)
}

func TestFinancialSummary(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("Summary", mock.Anything, f.accountID, models.FinancialFilter{}).
		Return(finance.Summarize(dec("12000.5"), dec("4000.25")), nil)

	w := f.do(http.MethodGet, "/api/v1/financials/summary", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalIncome":12000.5,"totalExpenses":4000.25,"net":8000.25}`, w.Body.String())
}

func TestFinancialSummary_EmptyScopeIsZero(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("Summary", mock.Anything, f.accountID, mock.Anything).
		Return(finance.Summarize(decimal.Zero, decimal.Zero), nil)

	w := f.do(http.MethodGet, "/api/v1/financials/summary?propertyId="+uuid.NewString(), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalIncome":0,"totalExpenses":0,"net":0}`, w.Body.String())
}

func TestFinancialBreakdown(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("ExpenseBreakdown", mock.Anything, f.accountID, mock.Anything).Return([]finance.CategoryTotal{
		{Type: "MAINTENANCE", Total: dec("750"), Count: 3, Percentage: dec("75")},
		{Type: "TAX", Total: dec("250"), Count: 1, Percentage: dec("25")},
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/financials/breakdown/expenses", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got ListResponse[CategoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 75.0, got.Items[0].Percentage)
}

func TestFinancialSeries(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("Series", mock.Anything, f.accountID, mock.Anything, finance.GranularityQuarter).Return([]finance.PeriodTotal{
		{Period: "2024-Q1", Income: dec("3000.51"), Expenses: dec("0"), Net: dec("3000.51")},
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/financials/series?groupBy=quarter", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"groupBy":"quarter","periods":[{"period":"2024-Q1","income":3000.51,"expenses":0,"net":3000.51}]}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/financials/series?groupBy=week", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinancialSeriesChart(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("Series", mock.Anything, f.accountID, mock.Anything, finance.GranularityYear).Return([]finance.PeriodTotal{
		{Period: "2023", Income: dec("50000"), Expenses: dec("20000"), Net: dec("30000")},
		{Period: "2024", Income: dec("52000"), Expenses: dec("18000"), Net: dec("34000")},
	}, nil)
	f.financial.On("Series", mock.Anything, f.accountID, mock.Anything, finance.GranularityMonth).Return([]finance.PeriodTotal{
		{Period: "2024-01", Income: dec("5000"), Expenses: dec("0"), Net: dec("5000")},
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/financials/series/chart?groupBy=year", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = f.do(http.MethodGet, "/api/v1/financials/series/chart", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPropertyFinancials(t *testing.T) {
	f := newAPIFixture()
	propertyID := uuid.New()
	f.financial.On("PropertyDashboard", mock.Anything, f.accountID, propertyID, mock.Anything).Return(&services.PropertyDashboard{
		Property:      models.Property{ID: propertyID, Type: models.PropertyResidential},
		Summary:       finance.Summarize(dec("10000"), dec("2000")),
		PropertyValue: dec("1000000"),
		ROI:           dec("0.8"),
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/properties/"+propertyID.String()+"/financials", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got PropertyDashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0.8, got.ROI)
	assert.Equal(t, 8000.0, got.Summary.Net)
	assert.Nil(t, got.LatestValuation)
	assert.NotNil(t, got.Expenses, "empty lists serialize as []")
}

func TestPropertyFinancials_ForeignIsNotFound(t *testing.T) {
	f := newAPIFixture()
	id := uuid.New()
	f.financial.On("PropertyDashboard", mock.Anything, f.accountID, id, mock.Anything).
		Return(nil, fmt.Errorf("%w: %s", services.ErrPropertyNotFound, id))

	w := f.do(http.MethodGet, "/api/v1/properties/"+id.String()+"/financials?startDate=2024-01-01", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierrors.ErrNotFound, decodeError(t, w).Code)
	f.financial.AssertExpectations(t)
}

func TestPortfolio(t *testing.T) {
	f := newAPIFixture()
	f.financial.On("PortfolioSummary", mock.Anything, f.accountID).Return(&services.PortfolioSummary{
		PropertyCount: 2,
		TotalValue:    dec("2000000"),
		TotalUnits:    4,
		OccupiedUnits: 3,
		OccupancyRate: dec("75"),
		MortgageDebt:  dec("1083900"),
		Equity:        dec("916100"),
		Summary:       finance.Summarize(dec("50000"), dec("10000")),
		ROI:           dec("2"),
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/dashboard/portfolio", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got PortfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 75.0, got.OccupancyRate)
	assert.Equal(t, 916100.0, got.Equity)
	assert.Equal(t, 40000.0, got.Summary.Net)
}
