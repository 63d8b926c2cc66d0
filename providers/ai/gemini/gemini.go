package gemini

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/leofalp/chatstream/providers/ai"
)

const (
	// ProviderID identifies this codec in the dispatcher and configuration.
	ProviderID = "gemini"

	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-pro"

	modelsPath = "/v1beta/models/"

	// roleModel is Gemini's name for the assistant role.
	roleModel = "model"
)

// Codec implements ai.Codec for Gemini streamGenerateContent.
//
// The API key travels in the query string, so request URLs are secrets. They
// reach logs only through utils.RedactURL.
type Codec struct{}

// New returns the Gemini codec.
func New() *Codec {
	return &Codec{}
}

// NewAdapter is shorthand for ai.NewAdapter(gemini.New(), opts...).
func NewAdapter(opts ...ai.Option) *ai.Adapter {
	return ai.NewAdapter(New(), opts...)
}

// Ensure Codec implements ai.Codec
var _ ai.Codec = (*Codec)(nil)

func (codec *Codec) Name() string {
	return ProviderID
}

// StreamRequest builds
// POST {baseUrl}/v1beta/models/{model}:streamGenerateContent?key={apiKey}&alt=sse.
func (codec *Codec) StreamRequest(config ai.ProviderConfig, messages []ai.Message) (ai.WireRequest, error) {
	if config.APIKey == "" {
		return ai.WireRequest{}, fmt.Errorf("gemini: %w", ai.ErrMissingAPIKey)
	}
	return ai.WireRequest{
		Method: http.MethodPost,
		URL:    modelURL(config, ":streamGenerateContent") + "&alt=sse",
		Body:   requestFromMessages(config, messages),
	}, nil
}

// ProbeRequest looks the configured model up with
// GET {baseUrl}/v1beta/models/{model}?key={apiKey}.
func (codec *Codec) ProbeRequest(config ai.ProviderConfig) (ai.WireRequest, error) {
	if config.APIKey == "" {
		return ai.WireRequest{}, fmt.Errorf("gemini: %w", ai.ErrMissingAPIKey)
	}
	return ai.WireRequest{
		Method: http.MethodGet,
		URL:    modelURL(config, ""),
	}, nil
}

func (codec *Codec) NewDecoder() ai.Decoder {
	return decoder{}
}

// ErrorCode treats 400 as an auth failure: Gemini answers an invalid
// query-string key with 400 INVALID_ARGUMENT.
func (codec *Codec) ErrorCode(status int) ai.ErrorCode {
	return ai.CodeForStatus(status, true)
}

func modelURL(config ai.ProviderConfig, method string) string {
	return config.Endpoint(modelsPath) + url.PathEscape(config.Model) + method + "?key=" + url.QueryEscape(config.APIKey)
}
