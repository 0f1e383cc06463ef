package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// uriMatcher compiles a level-1 RFC 6570 URI template ("{var}" placeholders
// only, no operators or modifiers) into a regular expression and records
// the placeholder names in the order they appear.
//
// A placeholder captures one or more non-slash characters. This is
// stricter than plain RFC 6570 string expansion (which allows an empty
// expansion) so that, e.g., "/foo//bar" never matches "/foo/{x}/bar" -
// every segment a template names must actually be present.
type uriMatcher struct {
	template string
	re       *regexp.Regexp
	vars     []string
}

var placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

func compileTemplate(template string) (*uriMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("uri template cannot be empty")
	}
	if !strings.Contains(template, "{") {
		return nil, fmt.Errorf("uri template %q has no placeholders", template)
	}

	var vars []string
	var pattern strings.Builder
	pattern.WriteString("^")

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		start, end := loc[0], loc[1]
		name := template[loc[2]:loc[3]]
		if name == "" {
			return nil, fmt.Errorf("uri template %q has an empty placeholder", template)
		}
		pattern.WriteString(regexp.QuoteMeta(template[last:start]))
		pattern.WriteString(fmt.Sprintf("(?P<%s>[^/]+)", sanitizeGroupName(name)))
		vars = append(vars, name)
		last = end
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("uri template %q has no placeholders", template)
	}
	pattern.WriteString(regexp.QuoteMeta(template[last:]))
	pattern.WriteString("$")

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("uri template %q compiled to invalid regexp: %w", template, err)
	}

	return &uriMatcher{template: template, re: re, vars: vars}, nil
}

// sanitizeGroupName maps a template variable name to a valid Go regexp
// named-capture-group identifier, since template variables may contain
// characters ([A-Za-z0-9_-.]) that named groups don't allow.
func sanitizeGroupName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// match reports whether uri matches the template, returning the captured
// variable values keyed by their original (unsanitized) template names.
func (m *uriMatcher) match(uri string) (map[string]string, bool) {
	groups := m.re.FindStringSubmatch(uri)
	if groups == nil {
		return nil, false
	}

	names := m.re.SubexpNames()
	vars := make(map[string]string, len(m.vars))
	for _, varName := range m.vars {
		group := sanitizeGroupName(varName)
		for i, n := range names {
			if n == group {
				vars[varName] = groups[i]
				break
			}
		}
	}
	return vars, true
}
