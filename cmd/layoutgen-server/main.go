package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"

	"github.com/jackBcastro/powerapps-layout-api/components/layoutapi"
	"github.com/jackBcastro/powerapps-layout-api/internal/config"
	"github.com/jackBcastro/powerapps-layout-api/internal/httpx"
	"github.com/jackBcastro/powerapps-layout-api/pkg/apidoc"
	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/orchestrator"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render/preview"
	"github.com/jackBcastro/powerapps-layout-api/pkg/ruleset"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	handler, err := newRouter(cfg, logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "base_path", cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func newRouter(cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	planner, err := loadPlanner(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	page, err := preview.New(preview.WithTheme(previewTheme(cfg.Theme)))
	if err != nil {
		return nil, fmt.Errorf("preview renderer: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httpx.RequestLogger(logger))

	r.Method(http.MethodGet, "/healthz", httpx.Health())
	r.Method(http.MethodHead, "/healthz", httpx.Health())

	docOpts := apidoc.DefaultOptions()
	docOpts.LayoutPath = layoutapi.MountPath(cfg.BasePath)
	docOpts.PreviewPath = layoutapi.PreviewMountPath(cfg.BasePath)
	r.Handle("/openapi.json", apidoc.Handler(apidoc.Build(docOpts)))

	pattern, err := layoutapi.RegisterRoutes(r, cfg.BasePath,
		layoutapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
		layoutapi.WithLogger(logger),
		layoutapi.WithPlanner(planner),
		layoutapi.WithPreview(page),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("layout route registered", "pattern", pattern, "rules", len(planner.Rules()))
	return r, nil
}

func loadPlanner(path string) (*layout.Planner, error) {
	if strings.TrimSpace(path) == "" {
		return layout.New(), nil
	}
	set, err := ruleset.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if set.Empty() {
		return layout.New(), nil
	}
	return set.Planner(), nil
}

// previewTheme turns the configured theme into a renderer config. The
// configured CSS variables become manifest tokens.
func previewTheme(t config.Theme) *theme.RendererConfig {
	if t.Name == "" && t.Variant == "" && len(t.CSSVars) == 0 && t.AssetBase == "" {
		return nil
	}
	tokens := make(map[string]string, len(t.CSSVars))
	for key, value := range t.CSSVars {
		tokens[strings.TrimPrefix(key, "--")] = value
	}
	return orchestrator.RendererTheme(&theme.Selection{
		Theme:   t.Name,
		Variant: t.Variant,
		Manifest: &theme.Manifest{
			Name:   t.Name,
			Tokens: tokens,
			Assets: theme.Assets{Prefix: t.AssetBase},
		},
	})
}
