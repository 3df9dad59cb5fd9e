// Package config resolves server settings from defaults, an optional YAML
// file, LAYOUTGEN_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "LAYOUTGEN_"

// Theme selects the preview theme.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	CSSVars map[string]string `yaml:"cssVars"`
	// AssetBase prefixes theme asset keys when building URLs.
	AssetBase string `yaml:"assetBase"`
}

type Config struct {
	Addr          string        `yaml:"addr"`
	BasePath      string        `yaml:"basePath"`
	RulesPath     string        `yaml:"rulesPath"`
	LogLevel      string        `yaml:"logLevel"`
	MaxBodyBytes  int64         `yaml:"maxBodyBytes"`
	ShutdownGrace time.Duration `yaml:"shutdownGrace"`
	Theme         Theme         `yaml:"theme"`
}

func Default() Config {
	return Config{
		Addr:          ":8000",
		LogLevel:      "info",
		MaxBodyBytes:  1 << 20,
		ShutdownGrace: 10 * time.Second,
	}
}

// Load resolves the configuration for args (without the program name).
// getenv defaults to os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	fs := flag.NewFlagSet("layoutgen-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", getenv(envPrefix+"CONFIG"), "Path to a YAML config file")
	addr := fs.String("addr", "", "Listen address")
	basePath := fs.String("base-path", "", "Prefix for every route")
	rulesPath := fs.String("rules", "", "Rule file or directory (JSON/YAML)")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	maxBody := fs.Int64("max-body-bytes", 0, "Request body limit")
	grace := fs.Duration("shutdown-grace", 0, "Graceful shutdown timeout")
	themeName := fs.String("theme", "", "Preview theme name")
	themeVariant := fs.String("theme-variant", "", "Preview theme variant")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if path := strings.TrimSpace(*configPath); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(getenv); err != nil {
		return Config{}, err
	}

	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	if visited["addr"] {
		cfg.Addr = *addr
	}
	if visited["base-path"] {
		cfg.BasePath = *basePath
	}
	if visited["rules"] {
		cfg.RulesPath = *rulesPath
	}
	if visited["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if visited["max-body-bytes"] {
		cfg.MaxBodyBytes = *maxBody
	}
	if visited["shutdown-grace"] {
		cfg.ShutdownGrace = *grace
	}
	if visited["theme"] {
		cfg.Theme.Name = *themeName
	}
	if visited["theme-variant"] {
		cfg.Theme.Variant = *themeVariant
	}

	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("BASE_PATH", &c.BasePath)
	str("RULES", &c.RulesPath)
	str("LOG_LEVEL", &c.LogLevel)
	str("THEME", &c.Theme.Name)
	str("THEME_VARIANT", &c.Theme.Variant)

	if v := strings.TrimSpace(getenv(envPrefix + "MAX_BODY_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_BODY_BYTES: %w", envPrefix, err)
		}
		c.MaxBodyBytes = n
	}
	if v := strings.TrimSpace(getenv(envPrefix + "SHUTDOWN_GRACE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sSHUTDOWN_GRACE: %w", envPrefix, err)
		}
		c.ShutdownGrace = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxBodyBytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.ShutdownGrace < 0 {
		errs = append(errs, fmt.Errorf("shutdownGrace must not be negative, got %s", c.ShutdownGrace))
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" {
		errs = append(errs, errors.New("theme variant requires a theme name"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}
