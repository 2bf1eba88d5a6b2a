/*
Package factory provides JSON/YAML to YearPolicy conversion.

PURPOSE:
  Converts policy definitions into engine.YearPolicy values. Regulatory
  constants change yearly by government notice; compliance staff update a
  definition file instead of waiting for a code change.

WHY FILES?
  - Non-developers can enter the yearly notice values
  - Version control for policy definitions
  - Database storage of policy configs (store/sqlite keeps the raw JSON)
  - Recomputing a prior year is loading a prior definition

DEFINITION SCHEMA (JSON shown; YAML files use the same field names):
  {
    "year": 2025,
    "quota_rates": {"private": "0.031", "public": "0.038"},
    "levy_base_amounts": {"100_plus": 1258000, "under_100": 1258000},
    "incentive_unit_rates": {
      "severe": {"male": 600000, "female": 800000},
      "mild":   {"male": 350000, "female": 500000}
    },
    "max_reduction_of_levy": "0.9",
    "max_reduction_of_contract": "0.5"
  }

VALIDATION:
  Rates must be in (0,1); reduction caps in (0,1]; amounts must be
  positive whole currency units. A definition that fails validation is
  rejected outright - a half-loaded policy would turn engine lookups into
  the silent defaults the engine forbids.

SEE ALSO:
  - engine/policy.go: YearPolicy type and strict lookups
  - presets.go: Built-in definitions for recent years
  - store/sqlite: Persists definitions and serves them as a provider
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/quota-engine/engine"
)

// =============================================================================
// DEFINITION SCHEMA TYPES
// =============================================================================

// PolicyDefinition is the file/database representation of a YearPolicy.
// Rates are strings so exact decimal values survive the round trip;
// currency amounts are whole integers.
type PolicyDefinition struct {
	Year                   int                         `json:"year" yaml:"year"`
	QuotaRates             map[string]string           `json:"quota_rates" yaml:"quota_rates"`
	LevyBaseAmounts        map[string]int64            `json:"levy_base_amounts" yaml:"levy_base_amounts"`
	IncentiveUnitRates     map[string]map[string]int64 `json:"incentive_unit_rates" yaml:"incentive_unit_rates"`
	MaxReductionOfLevy     string                      `json:"max_reduction_of_levy" yaml:"max_reduction_of_levy"`
	MaxReductionOfContract string                      `json:"max_reduction_of_contract" yaml:"max_reduction_of_contract"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy builds a YearPolicy from a JSON definition string.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*engine.YearPolicy, error) {
	var def PolicyDefinition
	if err := json.Unmarshal([]byte(jsonStr), &def); err != nil {
		return nil, fmt.Errorf("invalid policy JSON: %w", err)
	}
	return f.Build(&def)
}

// LoadDefinitionFile reads and validates a definition from a .json,
// .yaml or .yml file, returning the definition itself (e.g. for storage).
func (f *PolicyFactory) LoadDefinitionFile(path string) (*PolicyDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var def PolicyDefinition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse YAML policy %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse JSON policy %s: %w", path, err)
		}
	}
	if _, err := f.Build(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadPolicyFile reads a definition file and builds the YearPolicy.
func (f *PolicyFactory) LoadPolicyFile(path string) (*engine.YearPolicy, error) {
	def, err := f.LoadDefinitionFile(path)
	if err != nil {
		return nil, err
	}
	return f.Build(def)
}

// Build validates a definition and converts it to a YearPolicy.
func (f *PolicyFactory) Build(def *PolicyDefinition) (*engine.YearPolicy, error) {
	if def.Year < 1990 || def.Year > 2100 {
		return nil, fmt.Errorf("policy year %d out of range", def.Year)
	}

	policy := &engine.YearPolicy{
		Year:              def.Year,
		QuotaRate:         make(map[engine.CompanyCategory]decimal.Decimal),
		LevyBaseAmount:    make(map[engine.SizeTier]decimal.Decimal),
		IncentiveUnitRate: make(map[engine.Severity]map[engine.Gender]decimal.Decimal),
	}

	for category, raw := range def.QuotaRates {
		cat := engine.CompanyCategory(category)
		if !cat.Valid() {
			return nil, fmt.Errorf("policy %d: unknown company category %q", def.Year, category)
		}
		rate, err := parseFraction(raw, "quota rate")
		if err != nil {
			return nil, fmt.Errorf("policy %d category %q: %w", def.Year, category, err)
		}
		policy.QuotaRate[cat] = rate
	}
	if len(policy.QuotaRate) == 0 {
		return nil, fmt.Errorf("policy %d: no quota rates defined", def.Year)
	}

	for tier, amount := range def.LevyBaseAmounts {
		t := engine.SizeTier(tier)
		if t != engine.TierHundredPlus && t != engine.TierUnderHundred {
			return nil, fmt.Errorf("policy %d: unknown size tier %q", def.Year, tier)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("policy %d tier %q: levy base amount must be positive", def.Year, tier)
		}
		policy.LevyBaseAmount[t] = decimal.NewFromInt(amount)
	}
	if len(policy.LevyBaseAmount) == 0 {
		return nil, fmt.Errorf("policy %d: no levy base amounts defined", def.Year)
	}

	for severity, byGender := range def.IncentiveUnitRates {
		sev := engine.Severity(severity)
		if !sev.Valid() {
			return nil, fmt.Errorf("policy %d: unknown severity %q", def.Year, severity)
		}
		policy.IncentiveUnitRate[sev] = make(map[engine.Gender]decimal.Decimal)
		for gender, amount := range byGender {
			gen := engine.Gender(gender)
			if !gen.Valid() {
				return nil, fmt.Errorf("policy %d: unknown gender %q", def.Year, gender)
			}
			if amount <= 0 {
				return nil, fmt.Errorf("policy %d %s/%s: incentive unit rate must be positive", def.Year, severity, gender)
			}
			policy.IncentiveUnitRate[sev][gen] = decimal.NewFromInt(amount)
		}
	}
	if len(policy.IncentiveUnitRate) == 0 {
		return nil, fmt.Errorf("policy %d: no incentive unit rates defined", def.Year)
	}

	var err error
	if policy.MaxReductionOfLevy, err = parseCap(def.MaxReductionOfLevy, "max_reduction_of_levy"); err != nil {
		return nil, fmt.Errorf("policy %d: %w", def.Year, err)
	}
	if policy.MaxReductionOfContract, err = parseCap(def.MaxReductionOfContract, "max_reduction_of_contract"); err != nil {
		return nil, fmt.Errorf("policy %d: %w", def.Year, err)
	}

	return policy, nil
}

// MarshalDefinition serializes a definition to JSON, the form
// store/sqlite persists.
func MarshalDefinition(def *PolicyDefinition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseFraction(raw, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", what, raw, err)
	}
	if !d.IsPositive() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s %q must be in (0,1)", what, raw)
	}
	return d, nil
}

func parseCap(raw, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", what, raw, err)
	}
	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s %q must be in (0,1]", what, raw)
	}
	return d, nil
}
