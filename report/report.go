/*
Package report renders finished compliance results into human-facing
documents.

PURPOSE:
  CSV exports for spreadsheet review and a plain-text annual summary for
  terminals and email bodies. All figures are already final when they
  reach this package: rendering NEVER computes - a renderer that
  recomputed could disagree with the audited result.

SEE ALSO:
  - engine/types.go: The result types rendered here
  - api/handlers.go: Streams the CSV export over HTTP
*/
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/quota-engine/engine"
)

// =============================================================================
// CSV EXPORT
// =============================================================================

// WriteAnnualCSV writes one row per month plus a totals row.
func WriteAnnualCSV(w io.Writer, result *engine.AnnualComplianceResult) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Month", "TotalHeadcount", "DisabledHeadcount",
		"ObligatedHeadcount", "RecognizedHeadcount", "Shortfall", "LevyAmount",
		"BaselineCount", "EligibleCount", "ExcludedCount", "IncentiveAmount",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.Months {
		m := &result.Months[i]
		row := []string{
			fmt.Sprintf("%d-%02d", m.Year, int(m.Month)),
			strconv.Itoa(m.TotalHeadcount),
			strconv.Itoa(m.DisabledHeadcount),
			strconv.FormatInt(m.ObligatedHeadcount, 10),
			m.RecognizedHeadcount.String(),
			m.Shortfall.String(),
			m.LevyAmount.String(),
			strconv.FormatInt(m.BaselineCount, 10),
			strconv.Itoa(m.EligibleCount),
			strconv.Itoa(m.ExcludedCount),
			m.IncentiveAmount.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	totals := []string{
		"TOTAL", "", "", "", "", "",
		result.TotalLevy.String(),
		"", "", "",
		result.TotalIncentive.String(),
	}
	if err := cw.Write(totals); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// WriteMonthlyLinesCSV writes the per-worker incentive detail of one
// month, one row per active worker.
func WriteMonthlyLinesCSV(w io.Writer, result *engine.MonthlyComplianceResult) error {
	cw := csv.NewWriter(w)

	header := []string{"WorkerID", "Rank", "Classification", "MonthsWorked", "UnitRate", "WageCap", "AppliedRate"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, line := range result.Lines {
		row := []string{
			string(line.WorkerID),
			strconv.Itoa(line.Rank),
			string(line.Classification),
			strconv.Itoa(line.MonthsWorked),
			line.UnitRate.String(),
			line.WageCap.String(),
			line.AppliedRate.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// =============================================================================
// TEXT SUMMARY
// =============================================================================

// AnnualSummary renders a compact plain-text summary of an annual result.
func AnnualSummary(result *engine.AnnualComplianceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compliance summary %d (%s)\n", result.Year, result.Category)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 46))
	fmt.Fprintf(&b, "%-28s %17s\n", "Total levy", result.TotalLevy.String())
	fmt.Fprintf(&b, "%-28s %17s\n", "Total incentive", result.TotalIncentive.String())
	fmt.Fprintf(&b, "%-28s %17s\n", "Linkage contract amount", result.ContractAmount.String())
	fmt.Fprintf(&b, "%-28s %17s\n", "Linkage reduction", result.Reduction.String())
	fmt.Fprintf(&b, "%-28s %17s\n", "Net levy payable", result.NetLevy.String())

	monthsWithShortfall := 0
	for i := range result.Months {
		if result.Months[i].Shortfall.IsPositive() {
			monthsWithShortfall++
		}
	}
	fmt.Fprintf(&b, "%-28s %17d\n", "Months with shortfall", monthsWithShortfall)

	return b.String()
}
