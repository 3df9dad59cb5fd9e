package ruleset

import (
	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// Empty reports whether the set holds neither rules nor a fallback.
func (s *Set) Empty() bool {
	return s == nil || (len(s.rules) == 0 && s.fallback == nil)
}

// Len returns the number of rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns the compiled rules in evaluation order.
func (s *Set) Rules() []layout.Rule {
	if s == nil {
		return nil
	}
	out := make([]layout.Rule, len(s.rules))
	for idx, compiled := range s.rules {
		rule := compiled.rule
		rule.Entry = rule.Entry.Clone()
		out[idx] = rule
	}
	return out
}

// Configs returns the normalised rule declarations, mainly for listing.
func (s *Set) Configs() []RuleConfig {
	if s == nil {
		return nil
	}
	out := make([]RuleConfig, len(s.rules))
	for idx, compiled := range s.rules {
		cfg := compiled.config
		cfg.Components = append([]string(nil), cfg.Components...)
		cfg.Features = append([]string(nil), cfg.Features...)
		cfg.PurposeContains = append([]string(nil), cfg.PurposeContains...)
		out[idx] = cfg
	}
	return out
}

// Fallback returns the fallback screen when the set defines one.
func (s *Set) Fallback() (layout.ScreenComponent, bool) {
	if s == nil || s.fallback == nil {
		return layout.ScreenComponent{}, false
	}
	return s.fallback.Clone(), true
}

// PlannerOptions converts the set into planner options. An empty rule list
// still replaces the built-in table; a missing fallback keeps the default.
func (s *Set) PlannerOptions() []layout.Option {
	if s == nil {
		return nil
	}
	opts := []layout.Option{layout.WithRules(s.Rules())}
	if fallback, ok := s.Fallback(); ok {
		opts = append(opts, layout.WithFallback(fallback))
	}
	return opts
}

// Planner builds a planner from the set.
func (s *Set) Planner() *layout.Planner {
	return layout.New(s.PlannerOptions()...)
}
