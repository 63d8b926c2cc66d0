package chat

import (
	"strings"
	"sync"

	"github.com/leofalp/chatstream/providers/ai"
)

// DraftStatus is the lifecycle state of an assistant reply being streamed.
type DraftStatus string

const (
	StatusStreaming DraftStatus = "streaming"
	StatusComplete  DraftStatus = "complete"
	StatusFailed    DraftStatus = "failed"
	StatusCancelled DraftStatus = "cancelled"
)

// Draft accumulates one assistant reply from canonical events. It is safe to
// apply events from the delivery goroutine while another goroutine reads it.
type Draft struct {
	mu        sync.Mutex
	requestID string
	content   strings.Builder
	status    DraftStatus
	code      ai.ErrorCode
}

// DraftSnapshot is a consistent copy of a Draft's state.
type DraftSnapshot struct {
	RequestID string
	Content   string
	Status    DraftStatus
	ErrorCode ai.ErrorCode
}

// Complete reports whether the reply finished normally.
func (s DraftSnapshot) Complete() bool {
	return s.Status == StatusComplete
}

func NewDraft() *Draft {
	return &Draft{status: StatusStreaming}
}

// Apply folds event into the draft. Start clears the content, Delta appends,
// Complete replaces the content with the full text, Error replaces it with
// "error: <message>" and Cancel keeps the partial text. Once a terminal event
// has been applied the draft no longer changes.
func (d *Draft) Apply(event ai.StreamEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status != StatusStreaming {
		return
	}

	switch event.Type {
	case ai.StreamEventStart:
		d.requestID = event.RequestID
		d.content.Reset()
	case ai.StreamEventDelta:
		d.content.WriteString(event.Text)
	case ai.StreamEventComplete:
		d.content.Reset()
		d.content.WriteString(event.FullText)
		d.status = StatusComplete
	case ai.StreamEventError:
		d.content.Reset()
		d.content.WriteString("error: " + event.Message)
		d.code = event.Code
		d.status = StatusFailed
	case ai.StreamEventCancel:
		d.status = StatusCancelled
	}
}

func (d *Draft) Snapshot() DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DraftSnapshot{
		RequestID: d.requestID,
		Content:   d.content.String(),
		Status:    d.status,
		ErrorCode: d.code,
	}
}

// Message returns the draft as an assistant message for the conversation history.
func (d *Draft) Message() ai.Message {
	return ai.Message{Role: ai.RoleAssistant, Content: d.Snapshot().Content}
}
