package ai

import (
	"strings"
	"time"
)

/*
	##### ADAPTER INPUT #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Previous model response
)

// ParseRole maps a stored role name onto a MessageRole. Matching ignores case
// and surrounding space; anything unrecognised is treated as a user message.
func ParseRole(value string) MessageRole {
	switch MessageRole(strings.ToLower(strings.TrimSpace(value))) {
	case RoleSystem:
		return RoleSystem
	case RoleAssistant:
		return RoleAssistant
	default:
		return RoleUser
	}
}

// Message is one immutable entry of the conversation history handed to an adapter.
// System messages are passed through by the OpenAI codec and dropped by the
// Anthropic and Gemini codecs.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewUserMessage is shorthand for a user-role Message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Default values applied when a ProviderConfig leaves them unset.
const (
	DefaultTimeoutSeconds   = 60
	DefaultAnthropicVersion = "2023-06-01"
)

// ProviderConfig is the read-only snapshot of one provider's settings used for a
// single call. The adapter layer never persists or mutates it.
type ProviderConfig struct {
	ProviderID       string   `json:"provider_id" koanf:"-"`
	BaseURL          string   `json:"base_url" koanf:"base_url"`
	APIKey           string   `json:"-" koanf:"api_key"`
	Model            string   `json:"model" koanf:"model"`
	Temperature      *float64 `json:"temperature,omitempty" koanf:"temperature"`
	TopP             *float64 `json:"top_p,omitempty" koanf:"top_p"`
	MaxTokens        *int     `json:"max_tokens,omitempty" koanf:"max_tokens"`
	TimeoutSeconds   int      `json:"timeout_seconds" koanf:"timeout_seconds"`
	AnthropicVersion string   `json:"anthropic_version,omitempty" koanf:"anthropic_version"`
}

// Timeout returns the connect and response-idle timeout for a stream.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Endpoint joins the configured base URL (minus trailing slashes) with path.
func (c ProviderConfig) Endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// Version returns the configured anthropic-version header value or the default.
func (c ProviderConfig) Version() string {
	if c.AnthropicVersion == "" {
		return DefaultAnthropicVersion
	}
	return c.AnthropicVersion
}
