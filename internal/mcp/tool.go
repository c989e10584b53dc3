package mcp

import (
	"fmt"

	"github.com/witness-rec/witness/internal/schema"
)

// Content is a single typed item in a tool result.
type Content struct {
	Type     string      `json:"type"`               // "text" or "image"
	Text     string      `json:"text,omitempty"`     // Text content for human-readable responses
	Data     interface{} `json:"data,omitempty"`     // Structured or binary content
	MimeType string      `json:"mimeType,omitempty"` // MIME type for binary content
}

// ToolResult is what a handler returns on a successful RPC call. IsError
// marks an operation-level failure; the RPC call itself still succeeds.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps a plain string as a successful tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult wraps a failure description as an isError tool result.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{
		Content: []Content{{Type: "text", Text: text}},
		IsError: true,
	}
}

// Handler executes one tool call with already-validated arguments.
type Handler func(args map[string]interface{}) (*ToolResult, error)

// Tool is one registry entry: a name, a human description, the declared
// parameter shape, and the handler invoked with validated arguments.
type Tool struct {
	Name        string
	Description string
	Params      *schema.Shape
	Handler     Handler
}

// descriptor renders the tool for tools/list.
func (t *Tool) descriptor() (map[string]interface{}, error) {
	inputSchema, err := t.Params.JSONSchema()
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.Name, err)
	}
	return map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
		"inputSchema": inputSchema,
	}, nil
}
