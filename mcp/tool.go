package mcp

import "context"

// ToolSpec describes a callable tool contributed to the catalog.
//
// Name must be unique within the registry and matches ^[A-Za-z0-9_-]+$.
// InputSchema is always an object-type JSON Schema; it may declare zero
// properties.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema InputSchema    `json:"inputSchema"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// InputSchema defines the JSON Schema for tool input parameters.
//
// This follows the JSON Schema specification and describes what parameters
// the tool expects, their types, and which ones are required. Properties
// also drive argument coercion (see the registry package): each property's
// declared "type" (and, for enums, "enum") is read by the coercer after
// validation succeeds.
type InputSchema struct {
	// Type is typically "object" for tool parameters.
	Type string `json:"type"`

	// Properties defines the individual parameter schemas.
	Properties map[string]any `json:"properties,omitempty"`

	// Required lists the parameter names that must be provided.
	Required []string `json:"required,omitempty"`
}

// AsMap renders the schema as the plain JSON-Schema object the validator and
// the tools/list response both expect.
func (s InputSchema) AsMap() map[string]any {
	m := map[string]any{"type": s.Type}
	if s.Properties != nil {
		m["properties"] = s.Properties
	} else {
		m["properties"] = map[string]any{}
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}

// ToolHandlerFunc is the host-supplied callable invoked on tools/call, after
// argument validation and coercion. A returned error becomes an inline
// isError:true result rather than a JSON-RPC error.
type ToolHandlerFunc func(ctx context.Context, args map[string]any) (ToolResult, error)

// ToolDescriptor is the wire shape of a tool in a tools/list response.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// ToolResult contains the result of a tool execution.
//
// The content items represent the output of the tool; content can be text,
// images, or other media types supported by MCP.
type ToolResult struct {
	Content []ContentItem `json:"content"`
}

// ContentItem represents a piece of content in a tool response or prompt
// message. The type field indicates what kind of content this is, and
// additional fields provide the actual content data.
type ContentItem struct {
	// Type indicates the content type (e.g., "text", "image", "resource").
	Type string `json:"type"`

	// Text contains the text content when Type is "text".
	Text string `json:"text,omitempty"`

	// Data contains the raw base64 data when Type is "image" or "blob".
	Data string `json:"data,omitempty"`

	// MimeType specifies the MIME type for binary content.
	MimeType string `json:"mimeType,omitempty"`

	// Resource contains a reference to an MCP resource when Type is "resource".
	Resource *ResourceReference `json:"resource,omitempty"`
}

// ResourceReference represents a reference to an MCP resource in tool output.
type ResourceReference struct {
	URI  string `json:"uri"`
	Type string `json:"type,omitempty"`
}

// TextContent builds a ContentItem carrying plain text.
func TextContent(text string) ContentItem {
	return ContentItem{Type: "text", Text: text}
}

// CallToolResult is the wire shape of a tools/call response. A handler error
// is reported here with IsError true, not as a JSON-RPC ErrorResponse.
type CallToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError"`
}
