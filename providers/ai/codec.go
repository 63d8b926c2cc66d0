package ai

import (
	"net/http"
	"strings"
)

// WireRequest is a provider-specific HTTP request built by a Codec.
// A nil Body sends no payload; any other value is encoded as JSON.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Codec translates between canonical messages/events and one provider's wire
// format. Codecs are stateless; per-stream decode state lives in the Decoder
// returned by NewDecoder.
type Codec interface {
	// Name returns the provider identifier ("openai", "anthropic", "gemini").
	Name() string

	// StreamRequest encodes the streaming request, auth included.
	StreamRequest(config ProviderConfig, messages []Message) (WireRequest, error)

	// ProbeRequest encodes the minimal non-streaming connection check.
	ProbeRequest(config ProviderConfig) (WireRequest, error)

	// NewDecoder returns a fresh decoder for one stream.
	NewDecoder() Decoder

	// ErrorCode maps a non-2xx status to the canonical taxonomy.
	ErrorCode(status int) ErrorCode
}

// Frame is what a Decoder extracts from one SSE data payload.
type Frame struct {
	// Texts are the non-empty text fragments in payload order.
	Texts []string
	// Done is set when the payload carries the provider's completion signal.
	Done bool
	// Skipped is set when the payload could not be parsed and was ignored.
	Skipped bool
}

// Decoder turns SSE data payloads into Frames. Decode must never fail the
// stream: unparseable payloads come back as Frame{Skipped: true}.
type Decoder interface {
	Decode(payload string) Frame
}

// Accumulator applies a Decoder to payloads in arrival order and produces
// canonical Delta events followed by a single Complete carrying the
// concatenation of every fragment seen. Payloads fed after completion are
// ignored.
type Accumulator struct {
	decoder Decoder
	text    strings.Builder
	deltas  int
	done    bool
}

func NewAccumulator(decoder Decoder) *Accumulator {
	return &Accumulator{decoder: decoder}
}

// Feed decodes one payload. The returned events are Deltas, plus a trailing
// Complete when the payload finishes the stream.
func (accumulator *Accumulator) Feed(payload string) ([]StreamEvent, Frame) {
	if accumulator.done {
		return nil, Frame{}
	}

	frame := accumulator.decoder.Decode(payload)
	events := make([]StreamEvent, 0, len(frame.Texts)+1)
	for _, text := range frame.Texts {
		if text == "" {
			continue
		}
		accumulator.text.WriteString(text)
		accumulator.deltas++
		events = append(events, DeltaEvent(text))
	}
	if frame.Done {
		accumulator.done = true
		events = append(events, CompleteEvent(accumulator.text.String()))
	}
	return events, frame
}

// Done reports whether the completion signal has been seen.
func (accumulator *Accumulator) Done() bool {
	return accumulator.done
}

// Text returns everything accumulated so far.
func (accumulator *Accumulator) Text() string {
	return accumulator.text.String()
}

// DeltaCount returns the number of Delta events produced.
func (accumulator *Accumulator) DeltaCount() int {
	return accumulator.deltas
}

// DecodeAll runs payloads through a fresh Accumulator and returns every event
// produced, stopping at Complete.
func DecodeAll(decoder Decoder, payloads ...string) []StreamEvent {
	accumulator := NewAccumulator(decoder)
	var events []StreamEvent
	for _, payload := range payloads {
		produced, _ := accumulator.Feed(payload)
		events = append(events, produced...)
		if accumulator.Done() {
			break
		}
	}
	return events
}
