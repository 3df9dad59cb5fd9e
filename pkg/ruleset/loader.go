package ruleset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// LoadFS walks fsys and parses every JSON/YAML rule file. A nil fsys yields an
// empty set.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := &Set{}
	if fsys == nil {
		return set, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isRuleFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("ruleset: read %s: %w", path, err)
		}
		if err := set.add(data, path); err != nil {
			return nil, err
		}
	}

	if err := set.checkScreens(); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadPath loads a single rule file or every rule file beneath a directory.
func LoadPath(path string) (*Set, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("ruleset: path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: %w", err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(path))
	}
	if !isRuleFile(path) {
		return nil, fmt.Errorf("ruleset: %s is not a JSON or YAML file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse builds a set from a single in-memory document. source names the
// document in error messages.
func Parse(data []byte, source string) (*Set, error) {
	set := &Set{}
	if err := set.add(data, source); err != nil {
		return nil, err
	}
	if err := set.checkScreens(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Set) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	if doc.Fallback != nil {
		if s.fallback != nil {
			return fmt.Errorf("ruleset: file %s redefines the fallback screen", source)
		}
		entry, err := normaliseScreen(doc.Fallback.Screen, doc.Fallback.Components, "fallback", source)
		if err != nil {
			return err
		}
		s.fallback = &entry
	}

	for idx, raw := range doc.Rules {
		compiled, err := compileRule(raw, idx, source)
		if err != nil {
			return err
		}
		for _, existing := range s.rules {
			if existing.config.Name == compiled.config.Name {
				return fmt.Errorf("ruleset: duplicate rule %q (files %s and %s)", compiled.config.Name, existing.source, source)
			}
		}
		s.rules = append(s.rules, compiled)
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("ruleset: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("ruleset: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func compileRule(raw RuleConfig, idx int, source string) (compiledRule, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return compiledRule{}, fmt.Errorf("ruleset: file %s rule %d has no name", source, idx)
	}

	entry, err := normaliseScreen(raw.Screen, raw.Components, "rule "+name, source)
	if err != nil {
		return compiledRule{}, err
	}

	features := normaliseKeywords(raw.Features)
	fragments := normaliseKeywords(raw.PurposeContains)
	if len(features) == 0 && len(fragments) == 0 {
		return compiledRule{}, fmt.Errorf("ruleset: file %s rule %q declares no features or purpose fragments", source, name)
	}

	var matchers []layout.Matcher
	if len(features) > 0 {
		matchers = append(matchers, layout.HasAnyFeature(features...))
	}
	if len(fragments) > 0 {
		matchers = append(matchers, layout.PurposeContains(fragments...))
	}

	cfg := RuleConfig{
		Name:            name,
		Screen:          string(entry.Screen),
		Components:      append([]string(nil), entry.Components...),
		Features:        features,
		PurposeContains: fragments,
	}
	return compiledRule{
		config: cfg,
		source: source,
		rule: layout.Rule{
			Name:  name,
			Match: layout.AnyOf(matchers...),
			Entry: entry,
		},
	}, nil
}

func normaliseScreen(screen string, components []string, owner, source string) (layout.ScreenComponent, error) {
	name := strings.TrimSpace(screen)
	if name == "" {
		return layout.ScreenComponent{}, fmt.Errorf("ruleset: file %s %s has no screen name", source, owner)
	}
	if len(components) == 0 {
		return layout.ScreenComponent{}, fmt.Errorf("ruleset: file %s %s lists no components", source, owner)
	}
	labels := make([]string, len(components))
	for idx, raw := range components {
		label := sanitizeLabel(raw)
		if label == "" {
			return layout.ScreenComponent{}, fmt.Errorf("ruleset: file %s %s component %d is empty", source, owner, idx)
		}
		labels[idx] = label
	}
	return layout.ScreenComponent{Screen: layout.Screen(name), Components: labels}, nil
}

// normaliseKeywords lower-cases keywords and drops blanks. Inner whitespace is
// kept because feature matching is exact.
func normaliseKeywords(raw []string) []string {
	var out []string
	for _, value := range raw {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, strings.ToLower(value))
	}
	return out
}

// checkScreens enforces that a screen name always carries the same component
// list, across rules and the fallback.
func (s *Set) checkScreens() error {
	seen := make(map[layout.Screen][]string)
	owner := make(map[layout.Screen]string)
	check := func(entry layout.ScreenComponent, who string) error {
		if prev, ok := seen[entry.Screen]; ok {
			if !slices.Equal(prev, entry.Components) {
				return fmt.Errorf("ruleset: screen %q has conflicting components in %s and %s", entry.Screen, owner[entry.Screen], who)
			}
			return nil
		}
		seen[entry.Screen] = entry.Components
		owner[entry.Screen] = who
		return nil
	}
	for _, compiled := range s.rules {
		if err := check(compiled.rule.Entry, fmt.Sprintf("rule %q (%s)", compiled.config.Name, compiled.source)); err != nil {
			return err
		}
	}
	if s.fallback != nil {
		if err := check(*s.fallback, "fallback"); err != nil {
			return err
		}
	}
	return nil
}

func isRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
