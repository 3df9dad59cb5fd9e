package apidoc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

func TestBuild_ValidDocument(t *testing.T) {
	doc := Build(DefaultOptions())
	if err := Validate(context.Background(), doc); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	item := doc.Paths.Find("/generate-layout")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /generate-layout in document")
	}
	if item.Post.OperationID != OperationGenerateLayout {
		t.Fatalf("unexpected operation id: %q", item.Post.OperationID)
	}
	if doc.Paths.Find("/generate-layout/preview") == nil {
		t.Fatalf("expected preview path in document")
	}
	if _, ok := doc.Components.Schemas[SchemaLayoutRequest]; !ok {
		t.Fatalf("expected %s component schema", SchemaLayoutRequest)
	}
}

func TestBuild_AppliesDefaultsAndSkipsPreview(t *testing.T) {
	doc := Build(Options{LayoutPath: "/api/layout"})
	if doc.Info.Title != DefaultOptions().Title {
		t.Fatalf("expected default title, got %q", doc.Info.Title)
	}
	if doc.Paths.Find("/api/layout") == nil {
		t.Fatalf("expected custom layout path")
	}
	if doc.Paths.Len() != 1 {
		t.Fatalf("expected only the layout path, got %d", doc.Paths.Len())
	}
}

func TestMarshal_UsesComponentRefs(t *testing.T) {
	payload, err := Marshal(Build(DefaultOptions()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"$ref": "#/components/schemas/LayoutRequest"`) {
		t.Fatalf("expected request body to reference the component schema:\n%s", payload)
	}
}

func TestHandler_ServesJSON(t *testing.T) {
	h := Handler(Build(DefaultOptions()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version: %#v", payload["openapi"])
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/openapi.json", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestDecodeLayoutRequest_Valid(t *testing.T) {
	req, err := DecodeLayoutRequest([]byte(`{"app_purpose": "Navigation app", "features": ["Home", "gallery"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := layout.Request{Purpose: "Navigation app", Features: []string{"Home", "gallery"}}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLayoutRequest_EmptyValuesAreValid(t *testing.T) {
	req, err := DecodeLayoutRequest([]byte(`{"app_purpose": "", "features": []}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Purpose != "" || len(req.Features) != 0 {
		t.Fatalf("unexpected request: %#v", req)
	}
}

func TestDecodeLayoutRequest_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"app_purpose":`},
		{name: "null body", body: `null`},
		{name: "missing features", body: `{"app_purpose": "x"}`},
		{name: "missing purpose", body: `{"features": []}`},
		{name: "features not array", body: `{"app_purpose": "x", "features": "home"}`},
		{name: "feature not string", body: `{"app_purpose": "x", "features": ["home", 3]}`},
		{name: "purpose not string", body: `{"app_purpose": 42, "features": []}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeLayoutRequest([]byte(tc.body))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(vErr.Details) == 0 {
				t.Fatalf("expected at least one detail")
			}
			for _, detail := range vErr.Details {
				if len(detail.Loc) == 0 || detail.Loc[0] != "body" {
					t.Fatalf("detail loc must be rooted at body: %#v", detail)
				}
				if detail.Msg == "" {
					t.Fatalf("detail without message: %#v", detail)
				}
			}
		})
	}
}
