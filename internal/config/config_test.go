package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layoutgen.yaml")
	yamlDoc := `
addr: ":9000"
basePath: /api
logLevel: debug
maxBodyBytes: 2048
shutdownGrace: 3s
theme:
  name: acme
  variant: light
  cssVars:
    brand: "#123456"
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(
		[]string{"-config", path, "-theme-variant", "dark"},
		env(map[string]string{
			"LAYOUTGEN_ADDR":           ":9100",
			"LAYOUTGEN_SHUTDOWN_GRACE": "5s",
		}),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		Addr:          ":9100",
		BasePath:      "/api",
		LogLevel:      "debug",
		MaxBodyBytes:  2048,
		ShutdownGrace: 5 * time.Second,
		Theme: Theme{
			Name:    "acme",
			Variant: "dark",
			CSSVars: map[string]string{"brand": "#123456"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{name: "unknown flag", args: []string{"-nope"}, want: "config:"},
		{name: "bad level", args: []string{"-log-level", "loud"}, want: "unknown log level"},
		{name: "bad body limit env", env: map[string]string{"LAYOUTGEN_MAX_BODY_BYTES": "lots"}, want: "MAX_BODY_BYTES"},
		{name: "zero body limit", args: []string{"-max-body-bytes", "-1"}, want: "maxBodyBytes"},
		{name: "variant without theme", args: []string{"-theme-variant", "dark"}, want: "theme variant"},
		{name: "missing file", args: []string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}, want: "read"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args, env(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for raw, ok := range map[string]bool{"": true, "DEBUG": true, "warning": true, "error": true, "trace": false} {
		if _, err := ParseLevel(raw); (err == nil) != ok {
			t.Fatalf("ParseLevel(%q) err=%v", raw, err)
		}
	}
}
