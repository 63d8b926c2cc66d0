package anthropic

import (
	"fmt"
	"net/http"

	"github.com/leofalp/chatstream/providers/ai"
)

const (
	// ProviderID identifies this codec in the dispatcher and configuration.
	ProviderID = "anthropic"

	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-sonnet-20240229"

	// DefaultMaxTokens is sent when the configuration leaves max tokens unset;
	// the Messages API requires the field.
	DefaultMaxTokens = 4096

	messagesEndpoint = "/v1/messages"

	probePrompt    = "Hi"
	probeMaxTokens = 10
)

// Codec implements ai.Codec for the Anthropic Messages API.
type Codec struct{}

// New returns the Anthropic codec.
func New() *Codec {
	return &Codec{}
}

// NewAdapter is shorthand for ai.NewAdapter(anthropic.New(), opts...).
func NewAdapter(opts ...ai.Option) *ai.Adapter {
	return ai.NewAdapter(New(), opts...)
}

// Ensure Codec implements ai.Codec
var _ ai.Codec = (*Codec)(nil)

func (codec *Codec) Name() string {
	return ProviderID
}

// StreamRequest builds POST {baseUrl}/v1/messages with stream=true.
// System-role messages are not sent (see requestFromMessages).
func (codec *Codec) StreamRequest(config ai.ProviderConfig, messages []ai.Message) (ai.WireRequest, error) {
	headers, err := authHeaders(config)
	if err != nil {
		return ai.WireRequest{}, err
	}
	return ai.WireRequest{
		Method: http.MethodPost,
		URL:    config.Endpoint(messagesEndpoint),
		Header: headers,
		Body:   requestFromMessages(config, messages),
	}, nil
}

// ProbeRequest builds a non-streaming "Hi" message capped at 10 tokens.
func (codec *Codec) ProbeRequest(config ai.ProviderConfig) (ai.WireRequest, error) {
	headers, err := authHeaders(config)
	if err != nil {
		return ai.WireRequest{}, err
	}
	return ai.WireRequest{
		Method: http.MethodPost,
		URL:    config.Endpoint(messagesEndpoint),
		Header: headers,
		Body:   probeRequest(config),
	}, nil
}

func (codec *Codec) NewDecoder() ai.Decoder {
	return decoder{}
}

func (codec *Codec) ErrorCode(status int) ai.ErrorCode {
	return ai.CodeForStatus(status, false)
}

// authHeaders returns the x-api-key and anthropic-version headers.
func authHeaders(config ai.ProviderConfig) (http.Header, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ai.ErrMissingAPIKey)
	}
	headers := http.Header{}
	headers.Set("x-api-key", config.APIKey)
	headers.Set("anthropic-version", config.Version())
	return headers, nil
}
