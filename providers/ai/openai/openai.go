package openai

import (
	"net/http"

	"github.com/leofalp/chatstream/providers/ai"
)

const (
	// ProviderID identifies this codec in the dispatcher and configuration.
	ProviderID = "openai"

	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-3.5-turbo"

	chatCompletionsEndpoint = "/v1/chat/completions"

	// doneSentinel is the literal payload that terminates an OpenAI stream.
	doneSentinel = "[DONE]"

	probePrompt    = "Hi"
	probeMaxTokens = 10
)

// Codec implements ai.Codec for OpenAI and OpenAI-compatible chat completion
// endpoints (vLLM, Ollama, LM Studio, ...).
type Codec struct{}

// New returns the OpenAI-compatible codec.
func New() *Codec {
	return &Codec{}
}

// NewAdapter is shorthand for ai.NewAdapter(openai.New(), opts...).
func NewAdapter(opts ...ai.Option) *ai.Adapter {
	return ai.NewAdapter(New(), opts...)
}

// Ensure Codec implements ai.Codec
var _ ai.Codec = (*Codec)(nil)

func (codec *Codec) Name() string {
	return ProviderID
}

// StreamRequest builds POST {baseUrl}/v1/chat/completions with stream=true.
// All roles, system included, are forwarded unchanged.
func (codec *Codec) StreamRequest(config ai.ProviderConfig, messages []ai.Message) (ai.WireRequest, error) {
	return ai.WireRequest{
		Method: http.MethodPost,
		URL:    config.Endpoint(chatCompletionsEndpoint),
		Header: authHeaders(config),
		Body:   requestFromMessages(config, messages),
	}, nil
}

// ProbeRequest builds a non-streaming "Hi" completion capped at 10 tokens.
func (codec *Codec) ProbeRequest(config ai.ProviderConfig) (ai.WireRequest, error) {
	return ai.WireRequest{
		Method: http.MethodPost,
		URL:    config.Endpoint(chatCompletionsEndpoint),
		Header: authHeaders(config),
		Body:   probeRequest(config),
	}, nil
}

func (codec *Codec) NewDecoder() ai.Decoder {
	return decoder{}
}

func (codec *Codec) ErrorCode(status int) ai.ErrorCode {
	return ai.CodeForStatus(status, false)
}

// authHeaders sends the key as a Bearer token. Self-hosted compatible servers
// often run without a key, so an empty one sends no Authorization header.
func authHeaders(config ai.ProviderConfig) http.Header {
	headers := http.Header{}
	if config.APIKey != "" {
		headers.Set("Authorization", "Bearer "+config.APIKey)
	}
	return headers
}
