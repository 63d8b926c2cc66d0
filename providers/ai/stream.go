package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of canonical event carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventStart indicates the transport is established and the request accepted.
	StreamEventStart StreamEventType = "start"
	// StreamEventDelta indicates an incremental text fragment.
	StreamEventDelta StreamEventType = "delta"
	// StreamEventComplete is terminal: the stream finished normally.
	StreamEventComplete StreamEventType = "complete"
	// StreamEventError is terminal: the stream failed.
	StreamEventError StreamEventType = "error"
	// StreamEventCancel is terminal: the stream was cancelled or superseded.
	StreamEventCancel StreamEventType = "cancel"
)

// StreamEvent is one canonical notification of a stream. Exactly one field
// group is meaningful, selected by Type.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	RequestID string          `json:"request_id,omitempty"` // Type == StreamEventStart
	Text      string          `json:"text,omitempty"`       // Type == StreamEventDelta
	FullText  string          `json:"full_text,omitempty"`  // Type == StreamEventComplete
	Code      ErrorCode       `json:"code,omitempty"`       // Type == StreamEventError
	Message   string          `json:"message,omitempty"`    // Type == StreamEventError
}

func StartEvent(requestID string) StreamEvent {
	return StreamEvent{Type: StreamEventStart, RequestID: requestID}
}

func DeltaEvent(text string) StreamEvent {
	return StreamEvent{Type: StreamEventDelta, Text: text}
}

func CompleteEvent(fullText string) StreamEvent {
	return StreamEvent{Type: StreamEventComplete, FullText: fullText}
}

func ErrorEvent(code ErrorCode, message string) StreamEvent {
	return StreamEvent{Type: StreamEventError, Code: code, Message: message}
}

func CancelEvent() StreamEvent {
	return StreamEvent{Type: StreamEventCancel}
}

// IsTerminal reports whether no event may follow this one.
func (e StreamEvent) IsTerminal() bool {
	switch e.Type {
	case StreamEventComplete, StreamEventError, StreamEventCancel:
		return true
	default:
		return false
	}
}

// EventStream is the finite, non-restartable sequence of events produced by one
// SendMessage call: Start (unless the request failed before the transport was
// established), zero or more Deltas, then exactly one terminal event.
//
// Important: callers must consume the stream to its terminal event, break out
// of Iter, or call Close. The adapter holds the HTTP response body open until
// one of those happens.
type EventStream struct {
	requestID string
	events    <-chan StreamEvent
	handle    *streamHandle
	finished  bool
}

// RequestID returns the id carried by this stream's Start event.
func (stream *EventStream) RequestID() string {
	return stream.requestID
}

// Next blocks until the next deliverable event. It returns false once the
// terminal event has been returned. Deltas produced after the handle was
// cancelled or superseded are discarded here, so none is observed after
// Cancel returns.
func (stream *EventStream) Next() (StreamEvent, bool) {
	if stream.finished {
		return StreamEvent{}, false
	}
	for event := range stream.events {
		if !event.IsTerminal() && !stream.handle.delivering() {
			continue
		}
		if event.IsTerminal() {
			stream.finished = true
		}
		return event, true
	}
	stream.finished = true
	return StreamEvent{}, false
}

// Iter returns the events for use with range-over-func loops. Breaking out of
// the loop closes the stream.
//
// Example:
//
//	for event := range stream.Iter() {
//	    if event.Type == ai.StreamEventDelta { fmt.Print(event.Text) }
//	}
func (stream *EventStream) Iter() iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		for {
			event, ok := stream.Next()
			if !ok {
				return
			}
			if !yield(event) {
				stream.Close()
				return
			}
		}
	}
}

// Collect consumes the stream and returns the concatenated Delta text along with
// the terminal event. On Complete the text is the adapter's FullText.
func (stream *EventStream) Collect() (string, StreamEvent) {
	var text strings.Builder
	var terminal StreamEvent
	for event := range stream.Iter() {
		switch event.Type {
		case StreamEventDelta:
			text.WriteString(event.Text)
		case StreamEventComplete:
			terminal = event
			return event.FullText, terminal
		case StreamEventError, StreamEventCancel:
			terminal = event
		}
	}
	return text.String(), terminal
}

// Close abandons the stream. The underlying request is cancelled and any
// undelivered events are dropped. Close is idempotent.
func (stream *EventStream) Close() {
	stream.handle.abandon()
	stream.finished = true
}
