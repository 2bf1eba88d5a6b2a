/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Pre-built scenarios that populate the database with realistic data.
  Each scenario creates a company, its disabled-worker roster, monthly
  headcounts, and the built-in year policies, so every compliance
  endpoint is immediately drivable.

AVAILABLE SCENARIOS:
  quota-met:        Large employer comfortably over quota; zero levy,
                    several incentive-eligible workers
  quota-shortfall:  Mid-size employer below quota; monthly levy due
  mixed-roster:     Employer straddling the baseline with every
                    exclusion classification represented

HOW SCENARIOS WORK:
  1. Reset database (clear all data)
  2. Store built-in year policy definitions
  3. Create company and workers
  4. Record twelve monthly headcounts

NOTE:
  Scenarios reset the database. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
  - factory/presets.go: Built-in policy definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/engine"
	"github.com/warp/quota-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "quota-met",
		Name:        "Quota Met",
		Description: "Large employer over quota: zero levy, incentive-eligible workers",
	},
	{
		ID:          "quota-shortfall",
		Name:        "Quota Shortfall",
		Description: "Mid-size employer below quota: monthly levy due",
	},
	{
		ID:          "mixed-roster",
		Name:        "Mixed Roster",
		Description: "Every exclusion classification represented around the baseline",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	for _, def := range factory.Presets() {
		if err := h.Store.SavePolicyDefinition(ctx, def); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store policy presets", err)
			return
		}
	}

	var err error
	switch req.ScenarioID {
	case "quota-met":
		err = h.loadQuotaMetScenario(ctx)
	case "quota-shortfall":
		err = h.loadQuotaShortfallScenario(ctx)
	case "mixed-roster":
		err = h.loadMixedRosterScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadQuotaMetScenario: 900 heads private employer, 35 disabled workers.
// Baseline ceil(900 x 0.031) = 28, so 7 workers sit past the baseline.
func (h *Handler) loadQuotaMetScenario(ctx context.Context) error {
	company := engine.Company{ID: "acme-logistics", Name: "Acme Logistics", Category: engine.CategoryPrivate}
	if err := h.Store.SaveCompany(ctx, company); err != nil {
		return err
	}

	for i := 0; i < 35; i++ {
		severity := engine.SeverityMild
		if i%3 == 0 {
			severity = engine.SeveritySevere
		}
		gender := engine.GenderMale
		if i%2 == 0 {
			gender = engine.GenderFemale
		}
		worker := engine.WorkerRecord{
			ID:                     engine.WorkerID(fmt.Sprintf("w-%03d", i+1)),
			Name:                   fmt.Sprintf("Worker %03d", i+1),
			Severity:               severity,
			Gender:                 gender,
			HireDate:               engine.NewDate(2024, time.Month(i%12+1), 1+i%28),
			WeeklyHours:            40,
			MonthlySalary:          decimal.NewFromInt(2_400_000),
			HasEmploymentInsurance: true,
			MeetsMinimumWage:       true,
		}
		if err := h.Store.SaveWorker(ctx, company.ID, worker); err != nil {
			return err
		}
	}

	return h.recordFlatHeadcounts(ctx, company.ID, 2025, 900)
}

// loadQuotaShortfallScenario: 1300 heads, only 12 disabled workers.
// Obligated floor(1300 x 0.031) = 40, so the monthly levy is substantial.
func (h *Handler) loadQuotaShortfallScenario(ctx context.Context) error {
	company := engine.Company{ID: "borealis-manufacturing", Name: "Borealis Manufacturing", Category: engine.CategoryPrivate}
	if err := h.Store.SaveCompany(ctx, company); err != nil {
		return err
	}

	for i := 0; i < 12; i++ {
		worker := engine.WorkerRecord{
			ID:                     engine.WorkerID(fmt.Sprintf("w-%03d", i+1)),
			Name:                   fmt.Sprintf("Worker %03d", i+1),
			Severity:               engine.SeveritySevere,
			Gender:                 engine.GenderMale,
			HireDate:               engine.NewDate(2023, time.June, 1),
			WeeklyHours:            40,
			MonthlySalary:          decimal.NewFromInt(2_100_000),
			HasEmploymentInsurance: true,
			MeetsMinimumWage:       true,
		}
		if err := h.Store.SaveWorker(ctx, company.ID, worker); err != nil {
			return err
		}
	}

	return h.recordFlatHeadcounts(ctx, company.ID, 2025, 1300)
}

// loadMixedRosterScenario: small employer where the roster walks through
// every classification: within baseline, each exclusion, and eligible.
func (h *Handler) loadMixedRosterScenario(ctx context.Context) error {
	company := engine.Company{ID: "cobalt-systems", Name: "Cobalt Systems", Category: engine.CategoryPrivate}
	if err := h.Store.SaveCompany(ctx, company); err != nil {
		return err
	}

	salary := decimal.NewFromInt(2_000_000)
	workers := []engine.WorkerRecord{
		// Ranks 1-3 fall within baseline (ceil(90 x 0.031) = 3).
		{ID: "w-001", Name: "First Hire", Severity: engine.SeveritySevere, Gender: engine.GenderFemale,
			HireDate: engine.NewDate(2022, time.January, 10), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: true},
		{ID: "w-002", Name: "Second Hire", Severity: engine.SeverityMild, Gender: engine.GenderMale,
			HireDate: engine.NewDate(2022, time.March, 5), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: true},
		{ID: "w-003", Name: "Third Hire", Severity: engine.SeverityMild, Gender: engine.GenderFemale,
			HireDate: engine.NewDate(2022, time.July, 18), WeeklyHours: 30, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: true},
		// Past baseline: uninsured.
		{ID: "w-004", Name: "Uninsured", Severity: engine.SeverityMild, Gender: engine.GenderMale,
			HireDate: engine.NewDate(2024, time.September, 1), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: false, MeetsMinimumWage: true},
		// Past baseline: below minimum wage.
		{ID: "w-005", Name: "Below Minimum", Severity: engine.SeverityMild, Gender: engine.GenderFemale,
			HireDate: engine.NewDate(2024, time.October, 1), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: false},
		// Past baseline: support period expired (mild, hired > 12 months ago).
		{ID: "w-006", Name: "Period Expired", Severity: engine.SeverityMild, Gender: engine.GenderMale,
			HireDate: engine.NewDate(2023, time.February, 1), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: true},
		// Past baseline: eligible.
		{ID: "w-007", Name: "Eligible Severe", Severity: engine.SeveritySevere, Gender: engine.GenderFemale,
			HireDate: engine.NewDate(2025, time.January, 15), WeeklyHours: 40, MonthlySalary: salary,
			HasEmploymentInsurance: true, MeetsMinimumWage: true},
	}
	for _, worker := range workers {
		if err := h.Store.SaveWorker(ctx, company.ID, worker); err != nil {
			return err
		}
	}

	return h.recordFlatHeadcounts(ctx, company.ID, 2025, 90)
}

func (h *Handler) recordFlatHeadcounts(ctx context.Context, company engine.CompanyID, year, total int) error {
	for month := time.January; month <= time.December; month++ {
		if err := h.Store.SetHeadcount(ctx, company, year, month, total); err != nil {
			return err
		}
	}
	return nil
}
