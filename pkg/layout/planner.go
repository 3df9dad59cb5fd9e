package layout

// Planner evaluates an ordered rule table. The zero value is not usable; call
// New.
type Planner struct {
	rules    []Rule
	fallback ScreenComponent
}

// Option configures a Planner at construction time.
type Option func(*Planner)

// WithRules replaces the rule table. Rules without a matcher are dropped.
func WithRules(rules []Rule) Option {
	return func(p *Planner) {
		if p == nil {
			return
		}
		p.rules = cloneRules(rules)
	}
}

// WithFallback replaces the fallback screen. Entries without a screen name
// are ignored.
func WithFallback(entry ScreenComponent) Option {
	return func(p *Planner) {
		if p == nil || entry.Screen == "" {
			return
		}
		p.fallback = entry.Clone()
	}
}

// New builds a planner seeded with DefaultRules and DefaultFallback.
func New(options ...Option) *Planner {
	p := &Planner{
		rules:    DefaultRules(),
		fallback: DefaultFallback(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

var defaultPlanner = New()

// Plan runs the default planner.
func Plan(purpose string, features []string) Result {
	return defaultPlanner.Plan(Request{Purpose: purpose, Features: features})
}

// Plan evaluates every rule in order and appends the entry of each match. A
// rule fires at most once regardless of how many of its keywords match. When
// no rule fires the fallback is returned as the only entry.
func (p *Planner) Plan(req Request) Result {
	if p == nil {
		return defaultPlanner.Plan(req)
	}
	q := NewQuery(req)

	out := make(Result, 0, len(p.rules))
	for _, rule := range p.rules {
		if rule.Match(q) {
			out = append(out, rule.Entry.Clone())
		}
	}
	if len(out) == 0 {
		out = append(out, p.fallback.Clone())
	}
	return out
}

// Rules returns a copy of the rule table in evaluation order.
func (p *Planner) Rules() []Rule {
	if p == nil {
		return DefaultRules()
	}
	return cloneRules(p.rules)
}

// Fallback returns a copy of the fallback screen.
func (p *Planner) Fallback() ScreenComponent {
	if p == nil {
		return DefaultFallback()
	}
	return p.fallback.Clone()
}
