package registry

import "testing"

func TestCompileTemplateRejectsEmptyAndPlaceholderless(t *testing.T) {
	if _, err := compileTemplate(""); err == nil {
		t.Error("expected an error for an empty template")
	}
	if _, err := compileTemplate("tea://menu"); err == nil {
		t.Error("expected an error for a template with no placeholders")
	}
}

func TestCompileTemplateRejectsEmptyPlaceholder(t *testing.T) {
	if _, err := compileTemplate("tea://{}"); err == nil {
		t.Error("expected an error for an empty placeholder name")
	}
}

func TestMatchCapturesPlaceholderValue(t *testing.T) {
	m, err := compileTemplate("tea://{name}")
	if err != nil {
		t.Fatalf("compileTemplate failed: %v", err)
	}

	vars, ok := m.match("tea://sencha")
	if !ok {
		t.Fatal("expected tea://sencha to match")
	}
	if vars["name"] != "sencha" {
		t.Errorf("expected captured name 'sencha', got %q", vars["name"])
	}
}

func TestMatchRequiresOneOrMoreCharactersPerSegment(t *testing.T) {
	m, err := compileTemplate("tea://{name}")
	if err != nil {
		t.Fatalf("compileTemplate failed: %v", err)
	}

	if _, ok := m.match("tea://"); ok {
		t.Error("expected an empty placeholder segment not to match")
	}
}

func TestMatchRejectsEmptyMiddleSegment(t *testing.T) {
	m, err := compileTemplate("/foo/{x}/bar")
	if err != nil {
		t.Fatalf("compileTemplate failed: %v", err)
	}
	if _, ok := m.match("/foo//bar"); ok {
		t.Error("expected '/foo//bar' not to match '/foo/{x}/bar'")
	}
	if vars, ok := m.match("/foo/baz/bar"); !ok || vars["x"] != "baz" {
		t.Errorf("expected a match capturing x=baz, got vars=%v ok=%v", vars, ok)
	}
}

func TestMatchWithMultiplePlaceholders(t *testing.T) {
	m, err := compileTemplate("shelf://{section}/{item}")
	if err != nil {
		t.Fatalf("compileTemplate failed: %v", err)
	}
	vars, ok := m.match("shelf://green/sencha")
	if !ok {
		t.Fatal("expected a match")
	}
	if vars["section"] != "green" || vars["item"] != "sencha" {
		t.Errorf("unexpected captured vars: %v", vars)
	}
}

func TestSanitizeGroupName(t *testing.T) {
	if got := sanitizeGroupName("tea-name.v1"); got != "tea_name_v1" {
		t.Errorf("expected sanitized group name 'tea_name_v1', got %q", got)
	}
}
