package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/jsonschema"
)

// ErrInvalidExport indicates the input does not match the export schema.
var ErrInvalidExport = errors.New("invalid conversation export")

// FieldError is one schema violation, located by JSON pointer.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError reports every schema violation found in an export.
type ValidationError struct {
	Source string
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d schema violation(s)", len(e.Fields))
	for _, f := range e.Fields {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Unwrap returns ErrInvalidExport for errors.Is support.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidExport
}

// exportSchema types every field Conversation and Message decode. Unknown
// fields are allowed, so newer exports keep loading.
var exportSchema = newExportSchema()

func newExportSchema() *openapi3.Schema {
	optional := func() *openapi3.Schema { return openapi3.NewStringSchema().WithNullable() }

	message := openapi3.NewObjectSchema().
		WithProperty("uuid", optional()).
		WithProperty("sender", openapi3.NewStringSchema()).
		WithProperty("text", optional()).
		WithProperty("created_at", optional())
	message.Required = []string{"sender"}

	conversation := openapi3.NewObjectSchema().
		WithProperty("uuid", optional()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("created_at", optional()).
		WithProperty("updated_at", optional()).
		WithProperty("chat_messages", openapi3.NewArraySchema().WithItems(message))
	conversation.Required = []string{"name", "chat_messages"}

	return openapi3.NewArraySchema().WithItems(conversation)
}

// Validate checks a decoded JSON document (as produced by encoding/json into
// an any) against the export schema.
func Validate(doc any) error {
	err := exportSchema.VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	fields := collectFieldErrors(err, nil)
	if len(fields) == 0 {
		fields = []FieldError{{Path: "/", Message: err.Error()}}
	}
	return &ValidationError{Fields: fields}
}

func collectFieldErrors(err error, out []FieldError) []FieldError {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			out = collectFieldErrors(inner, out)
		}
		return out
	case *openapi3.SchemaError:
		msg := e.Reason
		if msg == "" {
			msg = e.Error()
		}
		return append(out, FieldError{
			Path:    "/" + strings.Join(e.JSONPointer(), "/"),
			Message: msg,
		})
	default:
		return append(out, FieldError{Path: "/", Message: err.Error()})
	}
}

// JSONSchema returns the export format as a JSON Schema document.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect([]Conversation{})
	s.Title = "Claude.ai conversation export"
	s.Description = "Top-level array of conversations as found in conversations.json"
	return json.MarshalIndent(s, "", "  ")
}
