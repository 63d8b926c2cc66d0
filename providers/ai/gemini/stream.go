package gemini

import (
	"encoding/json"

	"github.com/leofalp/chatstream/providers/ai"
)

// decoder walks every candidate's parts in order. The stream completes on the
// first payload in which any candidate carries a finishReason; the parts of
// that payload still count.
type decoder struct{}

func (decoder) Decode(payload string) ai.Frame {
	response, err := unmarshalStreamResponse(payload)
	if err != nil {
		return ai.Frame{Skipped: true}
	}

	var frame ai.Frame
	for _, candidate := range response.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != nil && *part.Text != "" {
					frame.Texts = append(frame.Texts, *part.Text)
				}
			}
		}
		if candidate.FinishReason != nil {
			frame.Done = true
		}
	}
	return frame
}

// unmarshalStreamResponse parses one SSE payload into a generateContentResponse.
func unmarshalStreamResponse(payload string) (*generateContentResponse, error) {
	var response generateContentResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		return nil, err
	}
	return &response, nil
}
