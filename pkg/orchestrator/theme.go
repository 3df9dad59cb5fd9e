package orchestrator

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StaticSelector answers every Select call with the same selection, e.g. one
// built from configuration.
type StaticSelector struct {
	Selection *theme.Selection
}

func (s StaticSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.Selection, nil
}

// RendererTheme flattens a selection into the renderer configuration: the
// manifest tokens overlaid with the selected variant, a CSS variable per
// token and an asset resolver rooted at the manifest prefix.
func RendererTheme(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	manifest := selection.Manifest
	assets := map[string]string{}
	prefix := ""
	if manifest != nil {
		if cfg.Theme == "" {
			cfg.Theme = manifest.Name
		}
		mergeInto(cfg.Tokens, manifest.Tokens)
		mergeInto(cfg.Partials, manifest.Templates)
		mergeInto(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(cfg.Tokens, variant.Tokens)
			mergeInto(cfg.Partials, variant.Templates)
			mergeInto(assets, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for _, key := range sortedKeys(cfg.Tokens) {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = cfg.Tokens[key]
	}
	cfg.AssetURL = assetResolver(prefix, assets)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || strings.TrimSpace(file) == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
