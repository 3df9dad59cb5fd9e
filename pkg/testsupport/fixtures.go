package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// MustLoadRequest reads a JSON request fixture.
func MustLoadRequest(t *testing.T, path string) layout.Request {
	t.Helper()

	req, err := LoadRequest(path)
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	return req
}

// LoadRequest returns a request fixture without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadRequest(path string) (layout.Request, error) {
	if path == "" {
		return layout.Request{}, errors.New("testsupport: request path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Request{}, fmt.Errorf("testsupport: read request: %w", err)
	}
	var out layout.Request
	if err := json.Unmarshal(data, &out); err != nil {
		return layout.Request{}, fmt.Errorf("testsupport: unmarshal request: %w", err)
	}
	return out, nil
}

// MustLoadResult loads a JSON golden holding a bare layout list.
func MustLoadResult(t *testing.T, path string) layout.Result {
	t.Helper()

	data := MustReadGolden(t, path)
	var out layout.Result
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	payload = append(payload, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
