package ai

import (
	"context"
	"errors"
	"sync"
)

// Cancellation causes attached to a stream's context.
var (
	errCancelled   = errors.New("stream cancelled")
	errSuperseded  = errors.New("stream superseded by a newer request")
	errIdleTimeout = errors.New("stream idle timeout")
)

type handleState int

const (
	handleActive handleState = iota
	handleFinished
	handleCancelled
	handleSuperseded
)

func (s handleState) String() string {
	switch s {
	case handleActive:
		return "active"
	case handleFinished:
		return "finished"
	case handleCancelled:
		return "cancelled"
	case handleSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// streamHandle is the record of one in-flight request. Its state only moves
// away from handleActive, exactly once.
type streamHandle struct {
	requestID string
	cancel    context.CancelCauseFunc

	mu    sync.Mutex
	state handleState

	abandonOnce sync.Once
	abandoned   chan struct{}
}

func newStreamHandle(requestID string, cancel context.CancelCauseFunc) *streamHandle {
	return &streamHandle{
		requestID: requestID,
		cancel:    cancel,
		abandoned: make(chan struct{}),
	}
}

// stop moves an active handle to state (cancelled or superseded) and aborts
// its transport. It reports whether the handle was still active.
func (h *streamHandle) stop(state handleState, cause error) bool {
	h.mu.Lock()
	if h.state != handleActive {
		h.mu.Unlock()
		return false
	}
	h.state = state
	h.mu.Unlock()

	h.cancel(cause)
	return true
}

// resolve fixes the terminal event. If the handle was stopped first, the
// terminal is Cancel whatever the transport produced.
func (h *streamHandle) resolve(candidate StreamEvent) StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case handleActive:
		if candidate.Type == StreamEventCancel {
			h.state = handleCancelled
		} else {
			h.state = handleFinished
		}
		return candidate
	case handleCancelled, handleSuperseded:
		return CancelEvent()
	default:
		return candidate
	}
}

// delivering reports whether non-terminal events may still reach the caller.
func (h *streamHandle) delivering() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == handleActive || h.state == handleFinished
}

func (h *streamHandle) currentState() handleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// abandon is called when the consumer walks away from the stream.
func (h *streamHandle) abandon() {
	h.stop(handleCancelled, errCancelled)
	h.abandonOnce.Do(func() { close(h.abandoned) })
}
