/*
handlers.go - HTTP API handlers for the compliance dashboard

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates every figure to
  the engine - NO computation happens at this layer; all numbers are
  final when they leave the ComplianceService.

ENDPOINTS:
  Companies:
    GET    /api/companies                      List companies
    POST   /api/companies                      Create company
    GET    /api/companies/{id}                 Company details
    GET    /api/companies/{id}/workers         Disabled-worker roster
    POST   /api/companies/{id}/workers         Add/replace a worker record
    GET    /api/companies/{id}/headcounts/{year}  Recorded monthly headcounts
    POST   /api/companies/{id}/headcounts      Record a month's headcount

  Compliance:
    GET    /api/companies/{id}/compliance/{year}/{month}  Monthly figures
    GET    /api/companies/{id}/compliance/{year}          Annual aggregate
           ?contract_amount=NNN   linkage contract total for the year
    GET    /api/companies/{id}/compliance/{year}/export   Annual CSV

  Policies:
    GET    /api/policies                       Years with a definition
    POST   /api/policies                       Store a definition
    GET    /api/policies/{year}                Resolved policy check

  Scenarios:
    GET    /api/scenarios                      List demo scenarios
    POST   /api/scenarios/load                 Load a demo scenario

ERROR MAPPING:
  Configuration errors (missing policy)  -> 422
  Validation errors (bad worker/month)   -> 400
  Missing entities                       -> 404
  Everything else                        -> 500

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/engine"
	"github.com/warp/quota-engine/factory"
	"github.com/warp/quota-engine/report"
	"github.com/warp/quota-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *engine.ComplianceService

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires a ComplianceService over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Service: &engine.ComplianceService{
			Companies:  store,
			Rosters:    store,
			Policies:   store,
			Headcounts: store,
			Sink:       store,
		},
	}
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}

	dtos := make([]CompanyDTO, 0, len(companies))
	for _, c := range companies {
		dtos = append(dtos, companyDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	category := engine.CompanyCategory(req.Category)
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "category must be \"private\" or \"public\"", nil)
		return
	}

	company := engine.Company{ID: engine.CompanyID(req.ID), Name: req.Name, Category: category}
	if err := h.Store.SaveCompany(r.Context(), company); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save company", err)
		return
	}
	writeJSON(w, http.StatusCreated, companyDTO(company))
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.Company(r.Context(), engine.CompanyID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companyDTO(company))
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	if _, err := h.Store.Company(r.Context(), companyID); err != nil {
		writeEngineError(w, err)
		return
	}

	roster, err := h.Store.Roster(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}

	dtos := make([]WorkerDTO, 0, len(roster))
	for _, worker := range roster {
		dtos = append(dtos, workerDTO(worker))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	if _, err := h.Store.Company(r.Context(), companyID); err != nil {
		writeEngineError(w, err)
		return
	}

	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	worker, err := parseWorker(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.Store.SaveWorker(r.Context(), companyID, worker); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workerDTO(worker))
}

// =============================================================================
// HEADCOUNT HANDLERS
// =============================================================================

func (h *Handler) GetHeadcounts(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	recorded, err := h.Store.Headcounts(r.Context(), companyID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load headcounts", err)
		return
	}

	dto := HeadcountsDTO{Year: year, Months: make(map[int]int, len(recorded))}
	for month, total := range recorded {
		dto.Months[int(month)] = total
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) SetHeadcount(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	if _, err := h.Store.Company(r.Context(), companyID); err != nil {
		writeEngineError(w, err)
		return
	}

	var req SetHeadcountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12", nil)
		return
	}
	if req.TotalHeadcount < 0 {
		writeError(w, http.StatusBadRequest, "total_headcount must be >= 0", nil)
		return
	}

	if err := h.Store.SetHeadcount(r.Context(), companyID, req.Year, time.Month(req.Month), req.TotalHeadcount); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save headcount", err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// =============================================================================
// COMPLIANCE HANDLERS
// =============================================================================

func (h *Handler) ComputeMonthly(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	result, err := h.Service.ComputeMonth(r.Context(), companyID, year, time.Month(month))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlyResultDTO(result))
}

func (h *Handler) ComputeAnnual(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	contractAmount := decimal.Zero
	if raw := r.URL.Query().Get("contract_amount"); raw != "" {
		contractAmount, err = parseAmount(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "contract_amount must be whole currency units", err)
			return
		}
	}

	result, err := h.Service.ComputeYear(r.Context(), companyID, year, contractAmount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, annualResultDTO(result))
}

// ExportAnnual streams the annual result as CSV for spreadsheet review.
func (h *Handler) ExportAnnual(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "id"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	contractAmount := decimal.Zero
	if raw := r.URL.Query().Get("contract_amount"); raw != "" {
		contractAmount, err = parseAmount(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "contract_amount must be whole currency units", err)
			return
		}
	}

	result, err := h.Service.ComputeYear(r.Context(), companyID, year, contractAmount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-compliance-%d.csv", companyID, year))
	if err := report.WriteAnnualCSV(w, result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write CSV", err)
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	years, err := h.Store.ListPolicyYears(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var def factory.PolicyDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.SavePolicyDefinition(r.Context(), &def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy definition", err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

// GetPolicy resolves the stored definition for a year, reporting per
// category whether the engine could compute with it.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	policy, err := h.Store.PolicyFor(r.Context(), year, engine.CategoryPrivate)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	categories := make([]string, 0, len(policy.QuotaRate))
	for category := range policy.QuotaRate {
		categories = append(categories, string(category))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":       policy.Year,
		"categories": categories,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the engine's error taxonomy to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err) && engine.IsConfigurationError(err):
		// Missing policy: configuration, not a 404 - the URL was fine.
		writeError(w, http.StatusUnprocessableEntity, "Policy not configured", err)
	case engine.IsConfigurationError(err):
		writeError(w, http.StatusUnprocessableEntity, "Configuration error", err)
	case engine.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "Validation error", err)
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Computation failed", err)
	}
}

// parseAmount parses a whole-currency-unit amount.
func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %s is negative", raw)
	}
	if !d.Equal(d.Floor()) {
		return decimal.Zero, fmt.Errorf("amount %s has fractional currency units", raw)
	}
	return d, nil
}
