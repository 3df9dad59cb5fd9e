// Package preview renders a planned layout as a standalone HTML page, one
// section per screen, optionally styled through a go-theme renderer config.
package preview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render/template"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const (
	// Name is the registry name of the HTML renderer.
	Name = "html"
	// StylesheetAsset is the theme asset key resolved for the page stylesheet.
	StylesheetAsset = "preview.stylesheet"

	defaultTitle    = "Suggested layout"
	defaultTemplate = "layout"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine, e.g. to load a customised
// layout.tpl from disk.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTheme applies a resolved go-theme configuration: name, variant, CSS
// variables and the stylesheet asset.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithTitle sets the default page heading.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			r.title = trimmed
		}
	}
}

// Renderer implements render.Renderer for HTML previews.
type Renderer struct {
	engine template.TemplateRenderer
	theme  *theme.RendererConfig
	title  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer with the embedded template.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{title: defaultTitle}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("preview: templates: %w", err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(sub))
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

type pageTheme struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Style      string `json:"style,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

type page struct {
	Title    string        `json:"title"`
	Purpose  string        `json:"purpose"`
	Features []string      `json:"features"`
	Screens  layout.Result `json:"screens"`
	Theme    pageTheme     `json:"theme"`
}

// Render executes the layout template.
func (r *Renderer) Render(ctx context.Context, result layout.Result, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("preview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || r.engine == nil {
		return nil, errors.New("preview: renderer is not initialised")
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = r.title
	}
	data := page{
		Title:    title,
		Purpose:  opts.Request.Purpose,
		Features: opts.Request.Features,
		Screens:  result,
		Theme:    buildTheme(r.theme),
	}
	if opts.Theme != nil {
		data.Theme = buildTheme(opts.Theme)
	}

	out, err := r.engine.RenderTemplate(defaultTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return []byte(out), nil
}

func buildTheme(cfg *theme.RendererConfig) pageTheme {
	if cfg == nil {
		return pageTheme{}
	}
	out := pageTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		out.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		value := strings.TrimSpace(vars[key])
		if name == "" || value == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		parts = append(parts, name+": "+value)
	}
	return strings.Join(parts, "; ")
}
