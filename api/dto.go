/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract: currency and
  rate figures travel as strings (exact decimals), months as integers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyDefinition travels as-is on the policy routes
*/
package api

import (
	"time"

	"github.com/warp/quota-engine/engine"
)

// =============================================================================
// COMPANY / WORKER TYPES
// =============================================================================

type CompanyDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type CreateCompanyRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type WorkerDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Severity               string `json:"severity"`
	Gender                 string `json:"gender"`
	HireDate               string `json:"hire_date"`
	ResignDate             string `json:"resign_date,omitempty"`
	WeeklyHours            int    `json:"weekly_hours"`
	MonthlySalary          string `json:"monthly_salary"`
	HasEmploymentInsurance bool   `json:"has_employment_insurance"`
	MeetsMinimumWage       bool   `json:"meets_minimum_wage"`
}

type CreateWorkerRequest = WorkerDTO

type SetHeadcountRequest struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	TotalHeadcount int `json:"total_headcount"`
}

type HeadcountsDTO struct {
	Year   int         `json:"year"`
	Months map[int]int `json:"months"` // recorded months only
}

// =============================================================================
// RESULT TYPES
// =============================================================================

type IncentiveLineDTO struct {
	WorkerID       string `json:"worker_id"`
	Rank           int    `json:"rank"`
	Classification string `json:"classification"`
	MonthsWorked   int    `json:"months_worked"`
	UnitRate       string `json:"unit_rate"`
	WageCap        string `json:"wage_cap"`
	AppliedRate    string `json:"applied_rate"`
}

type MonthlyResultDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	TotalHeadcount    int `json:"total_headcount"`
	DisabledHeadcount int `json:"disabled_headcount"`

	ObligatedHeadcount  int64  `json:"obligated_headcount"`
	RecognizedHeadcount string `json:"recognized_headcount"`
	Shortfall           string `json:"shortfall"`
	LevyBaseAmount      string `json:"levy_base_amount"`
	LevyAmount          string `json:"levy_amount"`

	BaselineCount   int64  `json:"baseline_count"`
	EligibleCount   int    `json:"eligible_count"`
	ExcludedCount   int    `json:"excluded_count"`
	IncentiveAmount string `json:"incentive_amount"`

	Lines []IncentiveLineDTO `json:"lines"`
}

type AnnualResultDTO struct {
	Year     int    `json:"year"`
	Category string `json:"category"`

	TotalLevy      string `json:"total_levy"`
	TotalIncentive string `json:"total_incentive"`
	ContractAmount string `json:"contract_amount"`
	Reduction      string `json:"reduction"`
	NetLevy        string `json:"net_levy"`

	Months []MonthlyResultDTO `json:"months"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func companyDTO(c engine.Company) CompanyDTO {
	return CompanyDTO{ID: string(c.ID), Name: c.Name, Category: string(c.Category)}
}

func workerDTO(w engine.WorkerRecord) WorkerDTO {
	dto := WorkerDTO{
		ID:                     string(w.ID),
		Name:                   w.Name,
		Severity:               string(w.Severity),
		Gender:                 string(w.Gender),
		HireDate:               w.HireDate.String(),
		WeeklyHours:            w.WeeklyHours,
		MonthlySalary:          w.MonthlySalary.String(),
		HasEmploymentInsurance: w.HasEmploymentInsurance,
		MeetsMinimumWage:       w.MeetsMinimumWage,
	}
	if w.ResignDate != nil {
		dto.ResignDate = w.ResignDate.String()
	}
	return dto
}

func lineDTO(l engine.EmployeeIncentiveLine) IncentiveLineDTO {
	return IncentiveLineDTO{
		WorkerID:       string(l.WorkerID),
		Rank:           l.Rank,
		Classification: string(l.Classification),
		MonthsWorked:   l.MonthsWorked,
		UnitRate:       l.UnitRate.String(),
		WageCap:        l.WageCap.String(),
		AppliedRate:    l.AppliedRate.String(),
	}
}

func monthlyResultDTO(r *engine.MonthlyComplianceResult) MonthlyResultDTO {
	dto := MonthlyResultDTO{
		Year:  r.Year,
		Month: int(r.Month),

		TotalHeadcount:    r.TotalHeadcount,
		DisabledHeadcount: r.DisabledHeadcount,

		ObligatedHeadcount:  r.ObligatedHeadcount,
		RecognizedHeadcount: r.RecognizedHeadcount.String(),
		Shortfall:           r.Shortfall.String(),
		LevyBaseAmount:      r.LevyBaseAmount.String(),
		LevyAmount:          r.LevyAmount.String(),

		BaselineCount:   r.BaselineCount,
		EligibleCount:   r.EligibleCount,
		ExcludedCount:   r.ExcludedCount,
		IncentiveAmount: r.IncentiveAmount.String(),

		Lines: make([]IncentiveLineDTO, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		dto.Lines = append(dto.Lines, lineDTO(l))
	}
	return dto
}

func annualResultDTO(r *engine.AnnualComplianceResult) AnnualResultDTO {
	dto := AnnualResultDTO{
		Year:     r.Year,
		Category: string(r.Category),

		TotalLevy:      r.TotalLevy.String(),
		TotalIncentive: r.TotalIncentive.String(),
		ContractAmount: r.ContractAmount.String(),
		Reduction:      r.Reduction.String(),
		NetLevy:        r.NetLevy.String(),

		Months: make([]MonthlyResultDTO, 0, len(r.Months)),
	}
	for i := range r.Months {
		dto.Months = append(dto.Months, monthlyResultDTO(&r.Months[i]))
	}
	return dto
}

func parseWorker(req CreateWorkerRequest) (engine.WorkerRecord, error) {
	w := engine.WorkerRecord{
		ID:                     engine.WorkerID(req.ID),
		Name:                   req.Name,
		Severity:               engine.Severity(req.Severity),
		Gender:                 engine.Gender(req.Gender),
		WeeklyHours:            req.WeeklyHours,
		HasEmploymentInsurance: req.HasEmploymentInsurance,
		MeetsMinimumWage:       req.MeetsMinimumWage,
	}

	hire, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return engine.WorkerRecord{}, &engine.WorkerValidationError{
			WorkerID: w.ID, Field: "hire_date", Reason: "expected YYYY-MM-DD",
		}
	}
	w.HireDate = engine.DateFromTime(hire)

	if req.ResignDate != "" {
		resign, err := time.Parse("2006-01-02", req.ResignDate)
		if err != nil {
			return engine.WorkerRecord{}, &engine.WorkerValidationError{
				WorkerID: w.ID, Field: "resign_date", Reason: "expected YYYY-MM-DD",
			}
		}
		d := engine.DateFromTime(resign)
		w.ResignDate = &d
	}

	w.MonthlySalary, err = parseAmount(req.MonthlySalary)
	if err != nil {
		return engine.WorkerRecord{}, &engine.WorkerValidationError{
			WorkerID: w.ID, Field: "monthly_salary", Reason: "expected whole currency units",
		}
	}

	return w, engine.ValidateWorker(w)
}
