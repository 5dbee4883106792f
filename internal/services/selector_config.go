package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SelectorWeights are the additive scoring terms used by the content
// selector. They are supplied configuration, not compiled-in constants, so
// deployments can tune them and tests can substitute deterministic values.
type SelectorWeights struct {
	PrimarySkill      float64 `yaml:"primary_skill"`
	SecondarySkill    float64 `yaml:"secondary_skill"`
	CoverageBonus     float64 `yaml:"coverage_bonus"`
	DifficultyMatch   float64 `yaml:"difficulty_match"`
	AccessibilityNeed float64 `yaml:"accessibility_need"`
	DurationFit       float64 `yaml:"duration_fit"`
	ContentTypeMatch  float64 `yaml:"content_type_match"`
}

// DurationTable supplies estimated minutes when content metadata carries
// none, keyed by content type with a global default.
type DurationTable struct {
	DefaultMinutes int            `yaml:"default_minutes"`
	ByContentType  map[string]int `yaml:"by_content_type"`
}

func (t DurationTable) Minutes(contentType string, estimated int) int {
	if estimated > 0 {
		return estimated
	}
	if m, ok := t.ByContentType[contentType]; ok && m > 0 {
		return m
	}
	if t.DefaultMinutes > 0 {
		return t.DefaultMinutes
	}
	return 10
}

type SelectorConfig struct {
	Weights   SelectorWeights `yaml:"weights"`
	Durations DurationTable   `yaml:"durations"`

	CandidateLimit int `yaml:"candidate_limit"`
	LookbackDays   int `yaml:"lookback_days"`
	MaxPlanItems   int `yaml:"max_plan_items"`

	// EarlyStopBudgetFraction is the share of the budget that must be
	// consumed, together with full skill coverage, before the greedy fill
	// stops early.
	EarlyStopBudgetFraction float64 `yaml:"early_stop_budget_fraction"`
	// LowUtilizationFraction is the threshold below which a selection
	// gets an under-filled-budget note.
	LowUtilizationFraction float64 `yaml:"low_utilization_fraction"`
	// DurationFitLow/High bound the share of the budget in which a single
	// item's duration earns the duration-fit bonus.
	DurationFitLow  float64 `yaml:"duration_fit_low"`
	DurationFitHigh float64 `yaml:"duration_fit_high"`
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Weights: SelectorWeights{
			PrimarySkill:      10,
			SecondarySkill:    4,
			CoverageBonus:     2,
			DifficultyMatch:   3,
			AccessibilityNeed: 1.5,
			DurationFit:       2,
			ContentTypeMatch:  1,
		},
		Durations: DurationTable{
			DefaultMinutes: 10,
			ByContentType: map[string]int{
				"lesson":   15,
				"exercise": 10,
				"video":    8,
				"game":     12,
			},
		},
		CandidateLimit:          200,
		LookbackDays:            7,
		MaxPlanItems:            25,
		EarlyStopBudgetFraction: 0.70,
		LowUtilizationFraction:  0.50,
		DurationFitLow:          0.30,
		DurationFitHigh:         0.50,
	}
}

// LoadSelectorConfig reads overrides from a YAML file on top of the
// defaults. An empty path returns the defaults unchanged.
func LoadSelectorConfig(path string) (SelectorConfig, error) {
	cfg := DefaultSelectorConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read selector config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse selector config: %w", err)
	}
	return cfg, nil
}
