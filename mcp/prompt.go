package mcp

import "context"

// PromptSpec describes a reusable prompt template contributed to the catalog.
type PromptSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument defines a parameter that can be passed to a prompt.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptHandlerFunc renders a prompt's messages given the caller's argument
// values. Arguments arrive as plain strings, matching the wire shape of
// prompts/get - a prompt has no JSON-Schema input, unlike a tool.
type PromptHandlerFunc func(ctx context.Context, args map[string]string) (PromptResult, error)

// PromptDescriptor is the wire shape of a prompt in a prompts/list response.
type PromptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptResult contains the generated prompt messages, ready for use with a
// language model.
type PromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// PromptMessage represents a single message in a generated prompt.
type PromptMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent contains the actual content of a prompt message.
type MessageContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
