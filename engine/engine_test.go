package engine_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared across the engine test files. The test policy mirrors a recent
// year's published constants: private quota 3.1%, public 3.8%.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPolicy() *engine.YearPolicy {
	return &engine.YearPolicy{
		Year: 2025,
		QuotaRate: map[engine.CompanyCategory]decimal.Decimal{
			engine.CategoryPrivate: dec("0.031"),
			engine.CategoryPublic:  dec("0.038"),
		},
		LevyBaseAmount: map[engine.SizeTier]decimal.Decimal{
			engine.TierHundredPlus:  dec("1258000"),
			engine.TierUnderHundred: dec("1100000"),
		},
		IncentiveUnitRate: map[engine.Severity]map[engine.Gender]decimal.Decimal{
			engine.SeveritySevere: {
				engine.GenderMale:   dec("600000"),
				engine.GenderFemale: dec("800000"),
			},
			engine.SeverityMild: {
				engine.GenderMale:   dec("350000"),
				engine.GenderFemale: dec("500000"),
			},
		},
		MaxReductionOfLevy:     dec("0.9"),
		MaxReductionOfContract: dec("0.5"),
	}
}

// fullTimeWorker returns an insured, minimum-wage-compliant 40h worker.
func fullTimeWorker(id string, severity engine.Severity, gender engine.Gender, hire engine.Date) engine.WorkerRecord {
	return engine.WorkerRecord{
		ID:                     engine.WorkerID(id),
		Name:                   id,
		Severity:               severity,
		Gender:                 gender,
		HireDate:               hire,
		WeeklyHours:            40,
		MonthlySalary:          dec("2400000"),
		HasEmploymentInsurance: true,
		MeetsMinimumWage:       true,
	}
}

// severeRoster returns n severe male full-time workers hired on
// consecutive days so the active ordering is fixed.
func severeRoster(n int, firstHire engine.Date) []engine.WorkerRecord {
	roster := make([]engine.WorkerRecord, 0, n)
	for i := 0; i < n; i++ {
		id := workerID(i + 1)
		roster = append(roster, fullTimeWorker(id, engine.SeveritySevere, engine.GenderMale, firstHire.AddDays(i)))
	}
	return roster
}

func workerID(n int) string {
	// w-001, w-002, ... keeps the ID tie-break aligned with hire order.
	return fmt.Sprintf("w-%03d", n)
}

func june2025() engine.MonthContext {
	return engine.MonthContext{
		Category:       engine.CategoryPrivate,
		TotalHeadcount: 1000,
		EvaluationDate: engine.EndOfMonth(2025, time.June),
		Year:           2025,
	}
}
