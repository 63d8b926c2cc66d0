package openai

import (
	"testing"

	"github.com/leofalp/chatstream/providers/ai"
)

func TestDecoder_HiThereScenario(t *testing.T) {
	events := ai.DecodeAll(New().NewDecoder(),
		`{"choices":[{"delta":{"content":"Hi"}}]}`,
		`{"choices":[{"delta":{"content":" there"}}]}`,
		`[DONE]`,
	)

	want := []ai.StreamEvent{ai.DeltaEvent("Hi"), ai.DeltaEvent(" there"), ai.CompleteEvent("Hi there")}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestDecoder_SkipsMalformedFrames(t *testing.T) {
	frame := decoder{}.Decode(`{"choices":[{"delta":`)
	if !frame.Skipped {
		t.Error("expected truncated chunk to be skipped")
	}

	events := ai.DecodeAll(decoder{},
		`keep-alive`,
		`{"choices":[{"delta":{"content":"ok"}}]}`,
		`[DONE]`,
	)
	if len(events) != 2 || events[1] != ai.CompleteEvent("ok") {
		t.Errorf("expected stream to survive malformed frame, got %+v", events)
	}
}

func TestDecoder_IgnoresChunksWithoutContent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"role only", `{"choices":[{"index":0,"delta":{"role":"assistant"}}]}`},
		{"empty content", `{"choices":[{"delta":{"content":""}}]}`},
		{"null content with finish reason", `{"choices":[{"delta":{"content":null},"finish_reason":"stop"}]}`},
		{"no choices", `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := decoder{}.Decode(tt.payload)
			if frame.Skipped || frame.Done || len(frame.Texts) != 0 {
				t.Errorf("expected empty frame, got %+v", frame)
			}
		})
	}
}

func TestDecoder_FinishReasonDoesNotComplete(t *testing.T) {
	frame := decoder{}.Decode(`{"choices":[{"delta":{"content":"end"},"finish_reason":"stop"}]}`)
	if frame.Done {
		t.Error("only [DONE] completes an OpenAI stream")
	}
	if len(frame.Texts) != 1 || frame.Texts[0] != "end" {
		t.Errorf("unexpected texts %v", frame.Texts)
	}
}
