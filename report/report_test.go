package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/engine"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleAnnual() *engine.AnnualComplianceResult {
	months := make([]engine.MonthlyComplianceResult, 0, 12)
	for m := time.January; m <= time.December; m++ {
		shortfall := dec("0")
		levy := dec("0")
		if m <= time.June {
			shortfall = dec("16")
			levy = dec("20128000")
		}
		months = append(months, engine.MonthlyComplianceResult{
			Year:                2025,
			Month:               m,
			TotalHeadcount:      1300,
			DisabledHeadcount:   12,
			ObligatedHeadcount:  40,
			RecognizedHeadcount: dec("24"),
			Shortfall:           shortfall,
			LevyBaseAmount:      dec("1258000"),
			LevyAmount:          levy,
			BaselineCount:       41,
			IncentiveAmount:     dec("0"),
		})
	}
	return &engine.AnnualComplianceResult{
		Year:           2025,
		Category:       engine.CategoryPrivate,
		Months:         months,
		TotalLevy:      dec("120768000"),
		TotalIncentive: dec("0"),
		ContractAmount: dec("50000000"),
		Reduction:      dec("25000000"),
		NetLevy:        dec("95768000"),
	}
}

func TestWriteAnnualCSV(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteAnnualCSV(&buf, sampleAnnual()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// Header + 12 months + totals row.
	require.Len(t, rows, 14)
	assert.Equal(t, "Month", rows[0][0])
	assert.Equal(t, "2025-01", rows[1][0])
	assert.Equal(t, "2025-12", rows[12][0])

	january := rows[1]
	assert.Equal(t, "1300", january[1])
	assert.Equal(t, "40", january[3])
	assert.Equal(t, "16", january[5])
	assert.Equal(t, "20128000", january[6])
	assert.Equal(t, "41", january[7])

	totals := rows[13]
	assert.Equal(t, "TOTAL", totals[0])
	assert.Equal(t, "120768000", totals[6])
}

func TestWriteMonthlyLinesCSV(t *testing.T) {
	result := &engine.MonthlyComplianceResult{
		Year:  2025,
		Month: time.June,
		Lines: []engine.EmployeeIncentiveLine{
			{
				WorkerID:       "w-001",
				Rank:           1,
				Classification: engine.WithinBaseline,
				MonthsWorked:   17,
				UnitRate:       dec("0"),
				WageCap:        dec("0"),
				AppliedRate:    dec("0"),
			},
			{
				WorkerID:       "w-002",
				Rank:           2,
				Classification: engine.Eligible,
				MonthsWorked:   12,
				UnitRate:       dec("600000"),
				WageCap:        dec("1440000"),
				AppliedRate:    dec("600000"),
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteMonthlyLinesCSV(&buf, result))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"w-001", "1", "within_baseline", "17", "0", "0", "0"}, rows[1])
	assert.Equal(t, []string{"w-002", "2", "eligible", "12", "600000", "1440000", "600000"}, rows[2])
}

func TestAnnualSummary(t *testing.T) {
	out := AnnualSummary(sampleAnnual())

	assert.Contains(t, out, "Compliance summary 2025 (private)")
	assert.Contains(t, out, "120768000")
	assert.Contains(t, out, "25000000")
	assert.Contains(t, out, "95768000")
	assert.Contains(t, out, "Months with shortfall")
	// Six months carried a shortfall in the sample.
	assert.Regexp(t, `Months with shortfall\s+6`, out)
}
