// Package llm abstracts the remote language-model backends used for
// exercise generation. Callers describe what they want as a Request with
// an optional JSON schema; providers return validated structured output.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single abstraction the rest of the program depends on.
type Provider interface {
	// Generate sends the request and returns structured output. When the
	// request carries a Schema, Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Exercise generation is single-turn,
	// so this is normally one user message.
	Messages []Message

	// Schema, when set, forces the provider's structured-output mode and
	// the response is validated against it before being returned.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature in [0,1]; zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure a response must match.
type Schema struct {
	// Name identifies the schema to the provider (tool name for Anthropic,
	// schema name for OpenAI). Kebab-case.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the provider's output.
type Response struct {
	// Content is validated JSON when a Schema was requested, otherwise
	// the raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
