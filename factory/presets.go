/*
presets.go - Built-in YearPolicy definitions for recent years

PURPOSE:
  Ships the yearly notice values for recent years so demos and fresh
  installs work before anyone loads a definition file. Values follow the
  published schedule: quota rates per category, a single levy base amount
  applied per size tier, and incentive unit rates favoring severe and
  female workers.

These are starting points, not a source of record. Production loads the
officially published definitions via LoadPolicyFile or the policy API.
*/
package factory

// Preset2024 is the built-in definition for 2024.
func Preset2024() *PolicyDefinition {
	return &PolicyDefinition{
		Year:       2024,
		QuotaRates: map[string]string{"private": "0.031", "public": "0.038"},
		LevyBaseAmounts: map[string]int64{
			"100_plus":  1207000,
			"under_100": 1207000,
		},
		IncentiveUnitRates: map[string]map[string]int64{
			"severe": {"male": 600000, "female": 800000},
			"mild":   {"male": 350000, "female": 500000},
		},
		MaxReductionOfLevy:     "0.9",
		MaxReductionOfContract: "0.5",
	}
}

// Preset2025 is the built-in definition for 2025.
func Preset2025() *PolicyDefinition {
	return &PolicyDefinition{
		Year:       2025,
		QuotaRates: map[string]string{"private": "0.031", "public": "0.038"},
		LevyBaseAmounts: map[string]int64{
			"100_plus":  1258000,
			"under_100": 1258000,
		},
		IncentiveUnitRates: map[string]map[string]int64{
			"severe": {"male": 600000, "female": 800000},
			"mild":   {"male": 350000, "female": 500000},
		},
		MaxReductionOfLevy:     "0.9",
		MaxReductionOfContract: "0.5",
	}
}

// Presets returns all built-in definitions, oldest first.
func Presets() []*PolicyDefinition {
	return []*PolicyDefinition{Preset2024(), Preset2025()}
}
