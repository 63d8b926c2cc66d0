package anthropic

/*
	MESSAGES API - REQUEST TYPES
*/

// messagesRequest is the body of POST /v1/messages.
type messagesRequest struct {
	Model       string           `json:"model"`
	Messages    []messageContent `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Stream      bool             `json:"stream,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	TopP        *float64         `json:"top_p,omitempty"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

/*
	MESSAGES STREAMING API - EVENT TYPES

	Anthropic's SSE protocol repeats the "event:" discriminator as a "type"
	field inside every data payload, so decoding works from the data line alone.
	Only content_block_delta and message_stop are acted upon.
*/

const (
	eventContentBlockDelta = "content_block_delta"
	eventMessageStop       = "message_stop"
)

// streamEvent is the common envelope of every SSE data payload.
type streamEvent struct {
	Type  string       `json:"type"`
	Index int          `json:"index,omitempty"`
	Delta *streamDelta `json:"delta,omitempty"`
}

// streamDelta carries a content_block_delta fragment. Text is set for
// "text_delta"; other delta types (input_json_delta, thinking_delta) carry no text.
type streamDelta struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
}
