package layoutapi

import (
	"log/slog"
	"net/http"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render"
)

const (
	defaultRoutePath    = "/generate-layout"
	defaultPreviewPath  = "/generate-layout/preview"
	defaultMaxBodyBytes = 1 << 20
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	PreviewPath  string
	MaxBodyBytes int64
	Guard        GuardFunc
	Logger       *slog.Logger

	// Planner defaults to the built-in rule table.
	Planner *layout.Planner
	// Preview enables the HTML preview route when set.
	Preview render.Renderer
	// Encoder renders the layout response; defaults to render.NewJSON().
	Encoder render.Renderer
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		PreviewPath:  defaultPreviewPath,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.PreviewPath == "" {
		opts.PreviewPath = defaultPreviewPath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Planner == nil {
		opts.Planner = layout.New()
	}
	if opts.Encoder == nil {
		opts.Encoder = render.NewJSON()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithPreviewPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PreviewPath = path
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithPlanner(planner *layout.Planner) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Planner = planner
	}
}

func WithPreview(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Preview = renderer
	}
}

func WithEncoder(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Encoder = renderer
	}
}
