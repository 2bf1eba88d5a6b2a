package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/engine"
	"github.com/warp/quota-engine/factory"
	"github.com/warp/quota-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestRouter(t *testing.T) (http.Handler, *Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store)
	return NewRouter(h), h
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// seedPolicy2025 stores a 2025 policy definition through the API.
func seedPolicy2025(t *testing.T, router http.Handler) {
	t.Helper()
	def := factory.Preset2025()
	rec := doJSON(t, router, http.MethodPost, "/api/policies", def)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func seedCompany(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/companies", CreateCompanyRequest{
		ID: id, Name: "Test Co", Category: "private",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func seedSevereRoster(t *testing.T, router http.Handler, companyID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		worker := WorkerDTO{
			ID:                     fmt.Sprintf("w-%03d", i+1),
			Name:                   fmt.Sprintf("Worker %d", i+1),
			Severity:               "severe",
			Gender:                 "male",
			HireDate:               engine.NewDate(2024, time.January, 1).AddDays(i).String(),
			WeeklyHours:            40,
			MonthlySalary:          "2400000",
			HasEmploymentInsurance: true,
			MeetsMinimumWage:       true,
		}
		rec := doJSON(t, router, http.MethodPost, "/api/companies/"+companyID+"/workers", worker)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func seedHeadcount(t *testing.T, router http.Handler, companyID string, year, month, total int) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/companies/"+companyID+"/headcounts", SetHeadcountRequest{
		Year: year, Month: month, TotalHeadcount: total,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

// =============================================================================
// COMPANY ENDPOINTS
// =============================================================================

func TestCreateAndGetCompany(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto CompanyDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "acme", dto.ID)
	assert.Equal(t, "private", dto.Category)
}

func TestListCompanies(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")
	seedCompany(t, router, "borealis")

	rec := doJSON(t, router, http.MethodGet, "/api/companies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []CompanyDTO
	decodeBody(t, rec, &dtos)
	assert.Len(t, dtos, 2)
}

func TestCreateCompany_RejectsBadCategory(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/companies", CreateCompanyRequest{
		ID: "x", Name: "X", Category: "municipal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCompany_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/companies/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// WORKER ENDPOINTS
// =============================================================================

func TestCreateAndListWorkers(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")
	seedSevereRoster(t, router, "acme", 3)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/workers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []WorkerDTO
	decodeBody(t, rec, &dtos)
	require.Len(t, dtos, 3)
	assert.Equal(t, "w-001", dtos[0].ID)
	assert.Equal(t, "2024-01-01", dtos[0].HireDate)
}

func TestCreateWorker_RejectsBadDate(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")

	rec := doJSON(t, router, http.MethodPost, "/api/companies/acme/workers", WorkerDTO{
		ID: "w-001", Name: "W", Severity: "mild", Gender: "male",
		HireDate: "01/15/2024", WeeklyHours: 40, MonthlySalary: "2400000",
		HasEmploymentInsurance: true, MeetsMinimumWage: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorker_RejectsFractionalSalary(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")

	rec := doJSON(t, router, http.MethodPost, "/api/companies/acme/workers", WorkerDTO{
		ID: "w-001", Name: "W", Severity: "mild", Gender: "male",
		HireDate: "2024-01-15", WeeklyHours: 40, MonthlySalary: "2400000.50",
		HasEmploymentInsurance: true, MeetsMinimumWage: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorker_UnknownCompany(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/companies/ghost/workers", WorkerDTO{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// HEADCOUNT ENDPOINTS
// =============================================================================

func TestSetAndGetHeadcounts(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")
	seedHeadcount(t, router, "acme", 2025, 1, 1300)
	seedHeadcount(t, router, "acme", 2025, 7, 700)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/headcounts/2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto HeadcountsDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, 2025, dto.Year)
	assert.Equal(t, map[int]int{1: 1300, 7: 700}, dto.Months)
}

func TestSetHeadcount_RejectsBadMonth(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")

	rec := doJSON(t, router, http.MethodPost, "/api/companies/acme/headcounts", SetHeadcountRequest{
		Year: 2025, Month: 13, TotalHeadcount: 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// COMPLIANCE ENDPOINTS
// =============================================================================

func TestComputeMonthly(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPolicy2025(t, router)
	seedCompany(t, router, "acme")
	seedSevereRoster(t, router, "acme", 12)
	seedHeadcount(t, router, "acme", 2025, 6, 1300)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025/6", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto MonthlyResultDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, 2025, dto.Year)
	assert.Equal(t, 6, dto.Month)
	assert.Equal(t, int64(40), dto.ObligatedHeadcount)
	assert.Equal(t, int64(41), dto.BaselineCount)
	assert.Equal(t, "24", dto.RecognizedHeadcount)
	assert.Equal(t, "16", dto.Shortfall)
	assert.Equal(t, "20128000", dto.LevyAmount)
	assert.Len(t, dto.Lines, 12)
}

func TestComputeMonthly_NoPolicyIs422(t *testing.T) {
	router, _ := newTestRouter(t)
	seedCompany(t, router, "acme")
	seedHeadcount(t, router, "acme", 2025, 6, 1300)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025/6", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestComputeMonthly_NoHeadcountIs400(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPolicy2025(t, router)
	seedCompany(t, router, "acme")

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025/6", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeAnnual_WithContractAmount(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPolicy2025(t, router)
	seedCompany(t, router, "acme")
	seedSevereRoster(t, router, "acme", 12)
	seedHeadcount(t, router, "acme", 2025, 1, 1300)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025?contract_amount=50000000", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto AnnualResultDTO
	decodeBody(t, rec, &dto)
	require.Len(t, dto.Months, 12)
	// January's headcount carries into all twelve months.
	assert.Equal(t, "241536000", dto.TotalLevy)
	assert.Equal(t, "25000000", dto.Reduction)
	assert.Equal(t, "216536000", dto.NetLevy)
}

func TestComputeAnnual_RejectsFractionalContractAmount(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPolicy2025(t, router)
	seedCompany(t, router, "acme")
	seedHeadcount(t, router, "acme", 2025, 1, 1300)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025?contract_amount=100.5", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportAnnualCSV(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPolicy2025(t, router)
	seedCompany(t, router, "acme")
	seedSevereRoster(t, router, "acme", 12)
	seedHeadcount(t, router, "acme", 2025, 1, 1300)

	rec := doJSON(t, router, http.MethodGet, "/api/companies/acme/compliance/2025/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "acme-compliance-2025.csv")
	assert.Contains(t, rec.Body.String(), "Month,TotalHeadcount")
	assert.Contains(t, rec.Body.String(), "TOTAL")
}

// =============================================================================
// POLICY ENDPOINTS
// =============================================================================

func TestPolicyLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// Empty to start.
	rec := doJSON(t, router, http.MethodGet, "/api/policies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var years []int
	decodeBody(t, rec, &years)
	assert.Empty(t, years)

	seedPolicy2025(t, router)

	rec = doJSON(t, router, http.MethodGet, "/api/policies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &years)
	assert.Equal(t, []int{2025}, years)

	rec = doJSON(t, router, http.MethodGet, "/api/policies/2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resolved struct {
		Year       int      `json:"year"`
		Categories []string `json:"categories"`
	}
	decodeBody(t, rec, &resolved)
	assert.Equal(t, 2025, resolved.Year)
	assert.ElementsMatch(t, []string{"private", "public"}, resolved.Categories)
}

func TestCreatePolicy_RejectsInvalidDefinition(t *testing.T) {
	router, _ := newTestRouter(t)
	def := factory.Preset2025()
	def.QuotaRates["private"] = "1.5"

	rec := doJSON(t, router, http.MethodPost, "/api/policies", def)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPolicy_MissingYearIs422(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/policies/1999", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestListScenarios(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []ScenarioDTO
	decodeBody(t, rec, &dtos)
	assert.Len(t, dtos, 3)
}

func TestLoadScenario_UnknownID(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadScenario_ShortfallIsComputable(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "quota-shortfall"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current map[string]string
	decodeBody(t, rec, &current)
	assert.Equal(t, "quota-shortfall", current["scenario_id"])

	rec = doJSON(t, router, http.MethodGet, "/api/companies/borealis-manufacturing/compliance/2025/6", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto MonthlyResultDTO
	decodeBody(t, rec, &dto)
	assert.NotEqual(t, "0", dto.Shortfall)
}
