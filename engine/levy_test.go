package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/engine"
)

func TestLevyCalculator_ObligatedUsesFloorRounding(t *testing.T) {
	// GIVEN: 1300 total heads at the 3.1% private quota
	// 1300 x 0.031 = 40.3, so obligated must be 40 (floor), never 41
	mc := june2025()
	mc.TotalHeadcount = 1300

	calc := engine.LevyCalculator{Policy: testPolicy()}
	figures, err := calc.Calculate(mc, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(40), figures.ObligatedHeadcount)
}

func TestLevyCalculator_ShortfallAndLevy(t *testing.T) {
	// GIVEN: 12 severe full-time workers (weight 2 each) against an
	// obligation of 40
	mc := june2025()
	mc.TotalHeadcount = 1300
	roster := severeRoster(12, engine.NewDate(2024, time.January, 1))
	active, err := engine.ActiveRoster(roster, mc.EvaluationDate)
	require.NoError(t, err)

	calc := engine.LevyCalculator{Policy: testPolicy()}
	figures, err := calc.Calculate(mc, active)
	require.NoError(t, err)

	// THEN: recognized = 24, shortfall = 16, levy = 16 x 1258000
	assert.True(t, figures.RecognizedHeadcount.Equal(dec("24")), "recognized = %s", figures.RecognizedHeadcount)
	assert.True(t, figures.Shortfall.Equal(dec("16")), "shortfall = %s", figures.Shortfall)
	assert.True(t, figures.LevyAmount.Equal(dec("20128000")), "levy = %s", figures.LevyAmount)
}

func TestLevyCalculator_ZeroShortfallIsZeroLevy(t *testing.T) {
	// GIVEN: Recognized headcount far above the obligation
	mc := june2025()
	mc.TotalHeadcount = 200 // obligated = floor(200 x 0.031) = 6
	roster := severeRoster(10, engine.NewDate(2024, time.January, 1))
	active, err := engine.ActiveRoster(roster, mc.EvaluationDate)
	require.NoError(t, err)

	calc := engine.LevyCalculator{Policy: testPolicy()}
	figures, err := calc.Calculate(mc, active)
	require.NoError(t, err)

	// THEN: Shortfall clamps to zero, levy is zero, and no error
	assert.Equal(t, int64(6), figures.ObligatedHeadcount)
	assert.True(t, figures.Shortfall.IsZero())
	assert.True(t, figures.LevyAmount.IsZero())
}

func TestLevyCalculator_BaseAmountFollowsSizeTier(t *testing.T) {
	// The 100-head boundary flips the levy base amount.
	policy := testPolicy()
	roster := severeRoster(1, engine.NewDate(2024, time.January, 1))

	tests := []struct {
		name      string
		headcount int
		base      string
	}{
		{"99 heads uses the under-100 base", 99, "1100000"},
		{"100 heads uses the 100-plus base", 100, "1258000"},
		{"1000 heads uses the 100-plus base", 1000, "1258000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := june2025()
			mc.TotalHeadcount = tc.headcount
			active, err := engine.ActiveRoster(roster, mc.EvaluationDate)
			require.NoError(t, err)

			figures, err := engine.LevyCalculator{Policy: policy}.Calculate(mc, active)
			require.NoError(t, err)
			assert.True(t, figures.LevyBaseAmount.Equal(dec(tc.base)), "base = %s", figures.LevyBaseAmount)
		})
	}
}

func TestLevyCalculator_PublicCategoryUsesItsOwnRate(t *testing.T) {
	mc := june2025()
	mc.Category = engine.CategoryPublic
	mc.TotalHeadcount = 1000 // 1000 x 0.038 = 38 exactly

	figures, err := engine.LevyCalculator{Policy: testPolicy()}.Calculate(mc, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(38), figures.ObligatedHeadcount)
}

func TestLevyCalculator_MissingRateIsConfigurationError(t *testing.T) {
	policy := testPolicy()
	delete(policy.QuotaRate, engine.CategoryPublic)

	mc := june2025()
	mc.Category = engine.CategoryPublic

	_, err := engine.LevyCalculator{Policy: policy}.Calculate(mc, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrPolicyLookup)
	assert.True(t, engine.IsConfigurationError(err))
}

// =============================================================================
// WEIGHTING
// =============================================================================

func TestWorkerWeight_SevereDoubleCountHingesOnMonthlyHours(t *testing.T) {
	// 13h/week x 4.345 = 56.485 monthly hours: under the 60 threshold.
	// 14h/week x 4.345 = 60.83: over it.
	hire := engine.NewDate(2024, time.January, 1)

	under := fullTimeWorker("w-001", engine.SeveritySevere, engine.GenderMale, hire)
	under.WeeklyHours = 13
	over := fullTimeWorker("w-002", engine.SeveritySevere, engine.GenderMale, hire)
	over.WeeklyHours = 14

	assert.True(t, engine.WorkerWeight(under, engine.WeightingStandard).Equal(dec("1")))
	assert.True(t, engine.WorkerWeight(over, engine.WeightingStandard).Equal(dec("2")))
}

func TestWorkerWeight_MildNeverDoubles(t *testing.T) {
	w := fullTimeWorker("w-001", engine.SeverityMild, engine.GenderMale, engine.NewDate(2024, time.January, 1))
	assert.True(t, engine.WorkerWeight(w, engine.WeightingStandard).Equal(dec("1")))
}

func TestRecognizedHeadcount_VariantsDiverge(t *testing.T) {
	// Regression guard: the legacy seeding formula must stay distinct
	// from the canonical rule, not silently converge.
	hire := engine.NewDate(2024, time.January, 1)

	severeFemale := fullTimeWorker("w-001", engine.SeveritySevere, engine.GenderFemale, hire)
	mildMale := fullTimeWorker("w-002", engine.SeverityMild, engine.GenderMale, hire)
	mildMale.WeeklyHours = 15
	mildFemale := fullTimeWorker("w-003", engine.SeverityMild, engine.GenderFemale, hire)
	mildFemale.WeeklyHours = 18

	roster := []engine.WorkerRecord{severeFemale, mildMale, mildFemale}

	standard := engine.RecognizedHeadcount(roster, engine.WeightingStandard)
	legacy := engine.RecognizedHeadcount(roster, engine.WeightingLegacySeed)

	// standard: 2 + 1 + 1 = 4
	// legacy:   2.5 + 0.5 + 0.75 = 3.75
	assert.True(t, standard.Equal(dec("4")), "standard = %s", standard)
	assert.True(t, legacy.Equal(dec("3.75")), "legacy = %s", legacy)
	assert.False(t, standard.Equal(legacy))
}
