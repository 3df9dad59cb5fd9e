package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema component names.
const (
	SchemaLayoutRequest   = "LayoutRequest"
	SchemaScreenComponent = "ScreenComponent"
	SchemaLayoutResponse  = "LayoutResponse"
	SchemaValidationError = "HTTPValidationError"
)

// OperationGenerateLayout is the operationId of the layout endpoint.
const OperationGenerateLayout = "generateLayout"

// Options controls the generated document.
type Options struct {
	Title       string
	Version     string
	LayoutPath  string
	PreviewPath string
}

// DefaultOptions returns the options used by the server binary.
func DefaultOptions() Options {
	return Options{
		Title:       "PowerApps Layout API",
		Version:     "1.0.0",
		LayoutPath:  "/generate-layout",
		PreviewPath: "/generate-layout/preview",
	}
}

// LayoutRequestSchema returns the request body schema: a required string
// app_purpose and a required array of strings features.
func LayoutRequestSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaLayoutRequest
	schema.Properties = openapi3.Schemas{
		"app_purpose": openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		"features":    openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
	}
	schema.Required = []string{"app_purpose", "features"}
	return schema
}

// ScreenComponentSchema returns the schema of a single layout entry.
func ScreenComponentSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaScreenComponent
	schema.Properties = openapi3.Schemas{
		"screen":     openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		"components": openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
	}
	schema.Required = []string{"screen", "components"}
	return schema
}

// LayoutResponseSchema returns the response body schema.
func LayoutResponseSchema() *openapi3.Schema {
	items := openapi3.NewArraySchema()
	items.Items = openapi3.NewSchemaRef(componentRef(SchemaScreenComponent), ScreenComponentSchema())
	items.MinItems = 1

	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaLayoutResponse
	schema.Properties = openapi3.Schemas{
		"layout": openapi3.NewSchemaRef("", items),
	}
	schema.Required = []string{"layout"}
	return schema
}

func validationErrorSchema() *openapi3.Schema {
	detail := openapi3.NewObjectSchema()
	detail.Properties = openapi3.Schemas{
		"loc":  openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
		"msg":  openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		"type": openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
	}
	detail.Required = []string{"loc", "msg"}

	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaValidationError
	schema.Properties = openapi3.Schemas{
		"detail": openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(detail)),
	}
	return schema
}

// Build assembles the OpenAPI document.
func Build(opts Options) *openapi3.T {
	defaults := DefaultOptions()
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = defaults.Title
	}
	if strings.TrimSpace(opts.Version) == "" {
		opts.Version = defaults.Version
	}
	if strings.TrimSpace(opts.LayoutPath) == "" {
		opts.LayoutPath = defaults.LayoutPath
	}

	requestRef := openapi3.NewSchemaRef(componentRef(SchemaLayoutRequest), LayoutRequestSchema())
	responseRef := openapi3.NewSchemaRef(componentRef(SchemaLayoutResponse), LayoutResponseSchema())
	validationRef := openapi3.NewSchemaRef(componentRef(SchemaValidationError), validationErrorSchema())

	requestBody := &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(requestRef),
	}

	layoutOp := openapi3.NewOperation()
	layoutOp.OperationID = OperationGenerateLayout
	layoutOp.Summary = "Suggest screens and components for an app"
	layoutOp.RequestBody = requestBody
	layoutOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Successful Response").WithJSONSchemaRef(responseRef),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Validation Error").WithJSONSchemaRef(validationRef),
		}),
	)

	paths := openapi3.NewPaths(openapi3.WithPath(opts.LayoutPath, &openapi3.PathItem{Post: layoutOp}))

	if preview := strings.TrimSpace(opts.PreviewPath); preview != "" {
		previewOp := openapi3.NewOperation()
		previewOp.OperationID = OperationGenerateLayout + "Preview"
		previewOp.Summary = "Render the suggested layout as HTML"
		previewOp.RequestBody = requestBody
		previewOp.Responses = openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("HTML preview").
					WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})),
			}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Validation Error").WithJSONSchemaRef(validationRef),
			}),
		)
		paths.Set(preview, &openapi3.PathItem{Post: previewOp})
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: paths,
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaLayoutRequest:   openapi3.NewSchemaRef("", LayoutRequestSchema()),
				SchemaScreenComponent: openapi3.NewSchemaRef("", ScreenComponentSchema()),
				SchemaLayoutResponse:  openapi3.NewSchemaRef("", LayoutResponseSchema()),
				SchemaValidationError: openapi3.NewSchemaRef("", validationErrorSchema()),
			},
		},
	}
}

// Validate checks the document against the OpenAPI 3 rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return fmt.Errorf("apidoc: document is nil")
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("apidoc: validate: %w", err)
	}
	return nil
}

// Marshal renders the document as indented JSON.
func Marshal(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("apidoc: document is nil")
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal: %w", err)
	}
	return payload, nil
}

// Handler serves the document as JSON on GET and HEAD.
func Handler(doc *openapi3.T) http.Handler {
	payload, err := Marshal(doc)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	})
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}
