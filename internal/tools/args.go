// ABOUTME: Argument decoding and validation for tool calls.
// ABOUTME: Struct tags drive validation; failures become INVALID_PARAMS errors.

package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2389/sverigesradio-mcp/internal/apierr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Issue describes one rejected argument.
type Issue struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// pageArgs is embedded by every tool that accepts pagination.
type pageArgs struct {
	Page *int `json:"page,omitempty" validate:"omitempty,min=1"`
	Size *int `json:"size,omitempty" validate:"omitempty,min=1,max=100"`
}

// noArgs is used by tools without input.
type noArgs struct{}

// parseArgs decodes raw tool arguments into T and validates it.
// Absent or null arguments decode as an empty object.
func parseArgs[T any](raw json.RawMessage) (T, error) {
	var out T

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, apierr.Invalid([]Issue{decodeIssue(err)})
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return out, apierr.Invalid([]Issue{{Rule: "invalid", Message: err.Error()}})
		}
		issues := make([]Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, Issue{
				Path:  fieldPath(fe.Namespace()),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		return out, apierr.Invalid(issues)
	}
	return out, nil
}

// fieldPath drops the root struct name and embedded struct names from a namespace.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p == "pageArgs" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func decodeIssue(err error) Issue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Issue{
			Path:    typeErr.Field,
			Rule:    "type",
			Param:   typeErr.Type.String(),
			Message: "expected " + typeErr.Type.String() + ", got " + typeErr.Value,
		}
	}
	return Issue{Rule: "json", Message: err.Error()}
}

// opt returns nil for an empty string so it is left out of the query.
func opt(s string) any {
	if s == "" {
		return nil
	}
	return s
}
