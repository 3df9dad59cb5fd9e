package render

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

func TestJSON_RenderShape(t *testing.T) {
	result := layout.Plan("", []string{"gallery", "approval"})

	out, err := NewJSON().Render(context.Background(), result, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var payload Response
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(result, payload.Layout); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if raw["layout"][0]["screen"] != "Browse" {
		t.Fatalf("unexpected first screen: %#v", raw["layout"][0])
	}
}

func TestJSON_NilResultEncodesEmptyArray(t *testing.T) {
	out, err := NewJSON().Render(context.Background(), nil, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "{\"layout\":[]}\n" {
		t.Fatalf("unexpected payload: %q", out)
	}
}

func TestJSON_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewJSON(WithIndent("  ")).Render(ctx, layout.Result{}, RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestText_Render(t *testing.T) {
	out, err := NewText().Render(context.Background(), layout.Plan("", []string{"form"}), RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Edit: Edit form, Submit button, Cancel button\n"
	if string(out) != want {
		t.Fatalf("text mismatch\nwant: %q\n got: %q", want, out)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := NewDefaultRegistry()
	if diff := cmp.Diff([]string{NameJSON, NameText}, reg.List()); diff != "" {
		t.Fatalf("registry names mismatch (-want +got):\n%s", diff)
	}
	if err := reg.Register(NewJSON()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := reg.Get("xml"); !errors.Is(err, ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if !reg.Has(" TEXT ") {
		t.Fatalf("expected names to match case-insensitively")
	}
	if got := reg.MustGet("Json"); got.Name() != NameJSON {
		t.Fatalf("unexpected renderer %q", got.Name())
	}
}
