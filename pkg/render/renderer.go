package render

import (
	"context"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// Renderer converts a planned layout into a byte representation (JSON, HTML,
// plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, result layout.Result, options RenderOptions) ([]byte, error)
}
