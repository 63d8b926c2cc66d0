package anthropic

import (
	"encoding/json"

	"github.com/leofalp/chatstream/providers/ai"
)

// decoder maps Messages API stream events onto frames: content_block_delta
// yields its text, message_stop completes, every other type (message_start,
// content_block_start, ping, message_delta, ...) is ignored.
type decoder struct{}

func (decoder) Decode(payload string) ai.Frame {
	event, err := unmarshalStreamEvent(payload)
	if err != nil {
		return ai.Frame{Skipped: true}
	}

	switch event.Type {
	case eventContentBlockDelta:
		if event.Delta == nil || event.Delta.Text == nil || *event.Delta.Text == "" {
			return ai.Frame{}
		}
		return ai.Frame{Texts: []string{*event.Delta.Text}}
	case eventMessageStop:
		return ai.Frame{Done: true}
	default:
		return ai.Frame{}
	}
}

// unmarshalStreamEvent parses the data line of an SSE event.
func unmarshalStreamEvent(payload string) (*streamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
