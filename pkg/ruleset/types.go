package ruleset

import (
	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// RuleConfig is the on-disk shape of a single rule. A rule fires when any
// listed feature is present (exact, case-insensitive) or when the purpose
// contains any listed fragment.
type RuleConfig struct {
	Name            string   `json:"name" yaml:"name"`
	Screen          string   `json:"screen" yaml:"screen"`
	Components      []string `json:"components" yaml:"components"`
	Features        []string `json:"features" yaml:"features"`
	PurposeContains []string `json:"purposeContains" yaml:"purposeContains"`
}

// ScreenConfig is the on-disk shape of the fallback screen.
type ScreenConfig struct {
	Screen     string   `json:"screen" yaml:"screen"`
	Components []string `json:"components" yaml:"components"`
}

type documentFile struct {
	Fallback *ScreenConfig `json:"fallback" yaml:"fallback"`
	Rules    []RuleConfig  `json:"rules" yaml:"rules"`
}

// Set holds a validated rule table.
type Set struct {
	rules    []compiledRule
	fallback *layout.ScreenComponent
}

type compiledRule struct {
	config RuleConfig
	source string
	rule   layout.Rule
}
