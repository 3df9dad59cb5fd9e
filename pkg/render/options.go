package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// RenderOptions carries per-request data renderers may echo back alongside
// the layout. None of it changes which screens are rendered.
type RenderOptions struct {
	// Request is the planner input that produced the layout.
	Request layout.Request
	// Title overrides the heading used by document-style renderers.
	Title string
	// Theme, when set, takes precedence over a renderer's configured theme.
	Theme *theme.RendererConfig
}
