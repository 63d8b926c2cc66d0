package openai

import (
	"encoding/json"

	"github.com/leofalp/chatstream/providers/ai"
)

// decoder reads chat.completion.chunk payloads. The [DONE] sentinel ends the
// stream; finish_reason is informational only.
type decoder struct{}

func (decoder) Decode(payload string) ai.Frame {
	if payload == doneSentinel {
		return ai.Frame{Done: true}
	}

	chunk, err := unmarshalStreamChunk(payload)
	if err != nil {
		return ai.Frame{Skipped: true}
	}

	if len(chunk.Choices) == 0 {
		return ai.Frame{}
	}
	content := chunk.Choices[0].Delta.Content
	if content == nil || *content == "" {
		return ai.Frame{}
	}
	return ai.Frame{Texts: []string{*content}}
}

// unmarshalStreamChunk parses a single SSE payload into a chatCompletionStreamChunk.
func unmarshalStreamChunk(payload string) (*chatCompletionStreamChunk, error) {
	var chunk chatCompletionStreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}
