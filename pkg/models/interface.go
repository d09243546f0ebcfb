package models

import "context"

// Conversation roles shared by every provider adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolDef describes a callable tool the model may select. Parameters is a
// JSON-schema object ("type"/"properties"/"required").
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a tool invocation requested by the model. Arguments is the raw
// JSON payload exactly as the provider returned it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one turn in a chat transcript. ToolCalls is set on assistant
// turns that request tools; ToolCallID and Name are set on tool turns that
// answer them.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// Request is a single chat-completion request.
type Request struct {
	Messages    []Message
	Tools       []ToolDef
	Temperature float32
	MaxTokens   int
	// JSONOnly asks the provider for a JSON-object response where supported.
	JSONOnly bool
}

// Response is the model's reply: free text, zero or more tool calls, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel is the provider-agnostic chat interface. Adapters without native
// function calling ignore Tools and never return tool calls.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
