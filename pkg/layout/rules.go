package layout

import "strings"

// Query is the normalised view of a Request handed to matchers. Features are
// folded to lower case once per plan.
type Query struct {
	purpose  string
	features map[string]struct{}
}

// NewQuery folds the request into a Query.
func NewQuery(req Request) Query {
	q := Query{
		purpose:  strings.ToLower(req.Purpose),
		features: make(map[string]struct{}, len(req.Features)),
	}
	for _, feature := range req.Features {
		q.features[strings.ToLower(feature)] = struct{}{}
	}
	return q
}

// HasFeature reports whether the request listed keyword. The comparison is
// exact after case folding; "galleryview" does not match "gallery".
func (q Query) HasFeature(keyword string) bool {
	_, ok := q.features[strings.ToLower(keyword)]
	return ok
}

// PurposeContains reports whether the lower-cased purpose contains fragment.
func (q Query) PurposeContains(fragment string) bool {
	fragment = strings.ToLower(fragment)
	if fragment == "" {
		return false
	}
	return strings.Contains(q.purpose, fragment)
}

// Matcher decides whether a rule applies to a query.
type Matcher func(q Query) bool

// Rule appends Entry to the result whenever Match accepts the query.
type Rule struct {
	Name  string
	Match Matcher
	Entry ScreenComponent
}

// HasAnyFeature matches when any keyword is present among the features.
func HasAnyFeature(keywords ...string) Matcher {
	keys := append([]string(nil), keywords...)
	return func(q Query) bool {
		for _, key := range keys {
			if q.HasFeature(key) {
				return true
			}
		}
		return false
	}
}

// PurposeContains matches when the purpose contains any of the fragments.
func PurposeContains(fragments ...string) Matcher {
	frags := append([]string(nil), fragments...)
	return func(q Query) bool {
		for _, frag := range frags {
			if q.PurposeContains(frag) {
				return true
			}
		}
		return false
	}
}

// AnyOf matches when at least one of the matchers does. Nil matchers are
// ignored.
func AnyOf(matchers ...Matcher) Matcher {
	list := make([]Matcher, 0, len(matchers))
	for _, m := range matchers {
		if m != nil {
			list = append(list, m)
		}
	}
	return func(q Query) bool {
		for _, m := range list {
			if m(q) {
				return true
			}
		}
		return false
	}
}

// DefaultRules returns a fresh copy of the built-in rule table, in evaluation
// order. The feature test on "home" is exact while the purpose test on
// "navigation" is a substring match.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "home",
			Match: AnyOf(HasAnyFeature("home"), PurposeContains("navigation")),
			Entry: ScreenComponent{
				Screen:     ScreenHome,
				Components: []string{"Welcome message", "Navigation menu"},
			},
		},
		{
			Name:  "gallery",
			Match: HasAnyFeature("gallery"),
			Entry: ScreenComponent{
				Screen:     ScreenBrowse,
				Components: []string{"Gallery control", "Search box", "Sort dropdown"},
			},
		},
		{
			Name:  "details",
			Match: HasAnyFeature("details"),
			Entry: ScreenComponent{
				Screen:     ScreenDetails,
				Components: []string{"Display form", "Back button", "Edit button"},
			},
		},
		{
			Name:  "edit",
			Match: HasAnyFeature("form", "edit"),
			Entry: ScreenComponent{
				Screen:     ScreenEdit,
				Components: []string{"Edit form", "Submit button", "Cancel button"},
			},
		},
		{
			Name:  "approval",
			Match: HasAnyFeature("approval"),
			Entry: ScreenComponent{
				Screen:     ScreenAdmin,
				Components: []string{"Approval button", "Comment box", "Status indicator"},
			},
		},
	}
}

// DefaultFallback returns the screen emitted when no rule matches.
func DefaultFallback() ScreenComponent {
	return ScreenComponent{
		Screen:     ScreenMain,
		Components: []string{"Label", "Text input", "Submit button"},
	}
}

// DefaultKeywords lists the feature keywords understood by DefaultRules, in
// rule order. Prompts use it to offer choices.
func DefaultKeywords() []string {
	return []string{"home", "gallery", "details", "form", "edit", "approval"}
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Match == nil {
			continue
		}
		rule.Entry = rule.Entry.Clone()
		out = append(out, rule)
	}
	return out
}
