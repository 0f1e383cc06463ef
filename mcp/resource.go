package mcp

import "context"

// ResourceSpec describes a static, concretely-addressed resource contributed
// to the catalog. URI is the exact key other components look it up by; a
// request for this URI is served directly, without going through the
// template matcher.
type ResourceSpec struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// TemplateSpec describes a parameterized resource addressed by a URI
// template (RFC 6570 level 1 subset: "{var}" placeholders only). A concrete
// URI matches a template when every placeholder captures one or more
// non-slash characters.
type TemplateSpec struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceHandlerFunc reads a concrete resource registered directly by URI.
type ResourceHandlerFunc func(ctx context.Context, uri string) (ResourceResult, error)

// TemplateHandlerFunc reads a resource matched against a template; vars
// holds the captured placeholder values keyed by name.
type TemplateHandlerFunc func(ctx context.Context, uri string, vars map[string]string) (ResourceResult, error)

// CompletionHandlerFunc suggests values for a template variable or a prompt
// argument given the partially typed value so far.
type CompletionHandlerFunc func(ctx context.Context, argument string, value string) ([]string, error)

// ResourceResult is the outcome of reading a resource, regardless of
// whether it came from a ResourceSpec or a matched TemplateSpec.
type ResourceResult struct {
	Contents []ResourceContent `json:"contents"`
}

// ResourceContent contains the actual content of a resource.
//
// When a resource is read, the server returns the content along with the
// URI for identification. A resource resolves to either text or base64
// binary data, never both.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ResourceDescriptor is the wire shape of a resource in a resources/list response.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// TemplateDescriptor is the wire shape of a template in a
// resources/templates/list response.
type TemplateDescriptor struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}
