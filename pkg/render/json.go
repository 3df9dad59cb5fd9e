package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// Renderer names registered by NewDefaultRegistry.
const (
	NameJSON = "json"
	NameText = "text"
)

// Response is the JSON body of a layout response.
type Response struct {
	Layout layout.Result `json:"layout"`
}

// JSON renders {"layout": [...]}.
type JSON struct {
	indent string
}

// JSONOption configures the JSON renderer.
type JSONOption func(*JSON)

// WithIndent pretty-prints the payload using indent per level.
func WithIndent(indent string) JSONOption {
	return func(r *JSON) {
		r.indent = indent
	}
}

// NewJSON constructs the JSON renderer.
func NewJSON(options ...JSONOption) *JSON {
	r := &JSON{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *JSON) Name() string { return NameJSON }

func (r *JSON) ContentType() string { return "application/json; charset=utf-8" }

func (r *JSON) Render(ctx context.Context, result layout.Result, _ RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		result = layout.Result{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(Response{Layout: result}); err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// Text renders one line per screen: "Screen: a, b, c".
type Text struct{}

// NewText constructs the text renderer.
func NewText() *Text { return &Text{} }

func (r *Text) Name() string { return NameText }

func (r *Text) ContentType() string { return "text/plain; charset=utf-8" }

func (r *Text) Render(ctx context.Context, result layout.Result, _ RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, entry := range result {
		b.WriteString(string(entry.Screen))
		b.WriteString(": ")
		b.WriteString(strings.Join(entry.Components, ", "))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
