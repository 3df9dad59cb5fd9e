// Package layoutgen suggests PowerApps screens and components for an app
// purpose and a list of feature keywords. The root package re-exports the
// common entry points; see pkg/layout for the planner and
// components/layoutapi for the HTTP handler.
package layoutgen

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/orchestrator"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render"
)

// Request is the planner input.
type Request = layout.Request

// ScreenComponent is one suggested screen.
type ScreenComponent = layout.ScreenComponent

// Result is the ordered list of suggested screens.
type Result = layout.Result

// RenderOptions aliases render.RenderOptions for callers writing their own
// renderers.
type RenderOptions = render.RenderOptions

// Plan runs the built-in rule table.
func Plan(purpose string, features []string) Result {
	return layout.Plan(purpose, features)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate plans req and renders it with the named renderer ("json", "text"
// or "html").
func Generate(ctx context.Context, req Request, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Layout:   req,
		Renderer: rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
