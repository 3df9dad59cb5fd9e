package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render/preview"
	"github.com/jackBcastro/powerapps-layout-api/pkg/ruleset"
)

const defaultRendererName = render.NameJSON

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithPlanner injects a planner, bypassing rule loading.
func WithPlanner(planner *layout.Planner) Option {
	return func(o *Orchestrator) {
		o.planner = planner
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithRulesFS supplies an fs.FS holding JSON/YAML rule files. Pass nil to use
// the built-in rule table without loading anything.
func WithRulesFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.rulesFS = fsys
		o.rulesSpecified = true
	}
}

// WithThemeSelector resolves Request.ThemeName/ThemeVariant into a renderer
// theme before rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// Orchestrator coordinates rule loading, planning and rendering. Defaults:
// embedded rule set, JSON/text/html renderers, JSON output.
type Orchestrator struct {
	planner         *layout.Planner
	registry        *render.Registry
	defaultRenderer string
	rulesFS         fs.FS
	rulesSpecified  bool
	themeSelector   theme.ThemeSelector
	initialiseErr   error
}

func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation.
type Request struct {
	Layout layout.Request

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	Title        string
	ThemeName    string
	ThemeVariant string
}

// Plan runs the planner only.
func (o *Orchestrator) Plan(req layout.Request) (layout.Result, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.planner.Plan(req), nil
}

// Planner exposes the configured planner.
func (o *Orchestrator) Planner() *layout.Planner {
	return o.planner
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Generate plans the request and renders it with the named renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := o.Plan(req.Layout)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := render.RenderOptions{Request: req.Layout, Title: req.Title}
	if o.themeSelector != nil {
		selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		opts.Theme = RendererTheme(selection)
	}

	output, err := renderer.Render(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewDefaultRegistry()
		renderer, err := preview.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: preview renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.planner == nil {
		o.planner = o.loadPlanner()
	}
}

func (o *Orchestrator) loadPlanner() *layout.Planner {
	if !o.rulesSpecified && o.rulesFS == nil {
		o.rulesFS = ruleset.EmbeddedFS()
	}
	if o.rulesFS == nil {
		return layout.New()
	}

	set, err := ruleset.LoadFS(o.rulesFS)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: load rules: %w", err)
		return layout.New()
	}
	if set.Empty() {
		return layout.New()
	}
	return set.Planner()
}
