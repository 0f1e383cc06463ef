package registry

import "testing"

func TestValidateArgumentsValid(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	}
	errs, err := ValidateArguments(schema, map[string]any{"name": "sencha"})
	if err != nil {
		t.Fatalf("ValidateArguments returned an error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no validation errors, got %+v", errs)
	}
}

func TestValidateArgumentsMissingRequired(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	}
	errs, err := ValidateArguments(schema, map[string]any{})
	if err != nil {
		t.Fatalf("ValidateArguments returned an error: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected at least one validation error for a missing required property")
	}
	if errs[0].Pointer != "/name" {
		t.Errorf("expected pointer %q, got %q", "/name", errs[0].Pointer)
	}
}

func TestValidateArgumentsWrongType(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"count": map[string]any{"type": "integer"}},
	}
	errs, err := ValidateArguments(schema, map[string]any{"count": "not-a-number"})
	if err != nil {
		t.Fatalf("ValidateArguments returned an error: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected a validation error for a wrong-typed property")
	}
	if errs[0].Pointer != "/count" {
		t.Errorf("expected pointer %q, got %q", "/count", errs[0].Pointer)
	}
}
