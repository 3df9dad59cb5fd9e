package layoutapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jackBcastro/powerapps-layout-api/internal/httpx"
	"github.com/jackBcastro/powerapps-layout-api/pkg/apidoc"
	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/render"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type detailResponse struct {
	Detail []apidoc.FieldError `json:"detail"`
}

// Handler builds the layout handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the layout handler from a pre-constructed Options
// value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return serve(opts, opts.Encoder)
}

// PreviewHandler builds the HTML preview handler. It responds 404 when no
// preview renderer is configured.
func PreviewHandler(fns ...OptionFn) http.Handler {
	return PreviewHandlerWithOptions(NewOptions(fns...))
}

func PreviewHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	if opts.Preview == nil {
		return http.NotFoundHandler()
	}
	return serve(opts, opts.Preview)
}

func serve(opts Options, renderer render.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		req, err := decodeRequest(w, r, opts.MaxBodyBytes)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		logger := opts.Logger
		if httpx.RequestID(r.Context()) != "" {
			logger = httpx.GetLogger(r.Context())
		}

		result := opts.Planner.Plan(req)
		body, err := renderer.Render(r.Context(), result, render.RenderOptions{Request: req})
		if err != nil {
			logger.ErrorContext(r.Context(), "layoutapi: render failed",
				slog.String("renderer", renderer.Name()),
				slog.Any("error", err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		logger.DebugContext(r.Context(), "layoutapi: layout planned",
			slog.Int("features", len(req.Features)),
			slog.Any("screens", result.Screens()),
		)

		w.Header().Set("Content-Type", renderer.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

func decodeRequest(w http.ResponseWriter, r *http.Request, limit int64) (layout.Request, error) {
	if r.Body == nil {
		return apidoc.DecodeLayoutRequest(nil)
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return layout.Request{}, StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return layout.Request{}, StatusError{Code: http.StatusBadRequest, Err: err}
	}
	return apidoc.DecodeLayoutRequest(raw)
}

func writeRequestError(w http.ResponseWriter, err error) {
	var validation *apidoc.ValidationError
	if errors.As(err, &validation) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		details := validation.Details
		if details == nil {
			details = []apidoc.FieldError{}
		}
		_ = json.NewEncoder(w).Encode(detailResponse{Detail: details})
		return
	}

	code := http.StatusBadRequest
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
