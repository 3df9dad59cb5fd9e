package apidoc

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// FieldError describes one request validation failure. Loc is rooted at
// "body" followed by the JSON path of the offending value.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type,omitempty"`
}

// ValidationError collects the failures of one request.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Details) == 0 {
		return "apidoc: invalid request"
	}
	msgs := make([]string, 0, len(e.Details))
	for _, detail := range e.Details {
		msgs = append(msgs, strings.Join(detail.Loc, ".")+": "+detail.Msg)
	}
	return "apidoc: invalid request: " + strings.Join(msgs, "; ")
}

var requestSchema = LayoutRequestSchema()

// DecodeLayoutRequest validates raw against LayoutRequestSchema and decodes
// it. Failures are reported as *ValidationError.
func DecodeLayoutRequest(raw []byte) (layout.Request, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return layout.Request{}, &ValidationError{Details: []FieldError{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error: " + err.Error(),
			Type: "json_invalid",
		}}}
	}

	if err := requestSchema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return layout.Request{}, &ValidationError{Details: schemaDetails(err)}
	}

	var req layout.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return layout.Request{}, &ValidationError{Details: []FieldError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "type_error",
		}}}
	}
	return req, nil
}

func schemaDetails(err error) []FieldError {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []FieldError
		for _, inner := range multi {
			out = append(out, schemaDetails(inner)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		loc := append([]string{"body"}, schemaErr.JSONPointer()...)
		return []FieldError{{
			Loc:  loc,
			Msg:  schemaErr.Reason,
			Type: schemaErr.SchemaField,
		}}
	}
	return []FieldError{{Loc: []string{"body"}, Msg: err.Error()}}
}
