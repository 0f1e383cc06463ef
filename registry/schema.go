package registry

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError is one structured failure surfaced by a schema check,
// shaped so a transport layer can report it as the `data` field of a
// -32602 Invalid params error. Pointer is a "/"-separated JSON pointer
// (e.g. "/a") rather than gojsonschema's native "(root).a" dot notation,
// so callers can fold it straight into a user-visible message.
type ValidationError struct {
	Pointer string `json:"pointer"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

// ValidateArguments validates args against a tool's input schema and
// returns every violation found. A nil/empty result means args are valid.
func ValidateArguments(schema map[string]any, args map[string]any) ([]ValidationError, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("registry: schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Pointer: jsonPointer(e),
			Keyword: e.Type(),
			Message: e.Description(),
		})
	}
	return errs, nil
}

// jsonPointer converts a gojsonschema error's field reference (e.g.
// "(root).a" or, for a "required" failure, "(root)" plus a "property"
// detail) into a proper "/"-separated JSON pointer such as "/a".
func jsonPointer(e gojsonschema.ResultError) string {
	field := strings.TrimPrefix(e.Field(), "(root)")
	field = strings.TrimPrefix(field, ".")

	var parts []string
	if field != "" {
		parts = strings.Split(field, ".")
	}
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"].(string); ok && prop != "" {
			parts = append(parts, prop)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
