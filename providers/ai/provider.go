package ai

import (
	"context"
)

// StreamAdapter is the uniform operation set exposed for every provider.
// *Adapter is the only implementation; the interface exists so callers such as
// the dispatcher can substitute fakes.
type StreamAdapter interface {
	// Name returns the provider identifier the adapter serves.
	Name() string

	// SendMessage opens exactly one stream and returns its events. It never
	// returns an error: every failure is delivered as the terminal Error
	// event. Calling it while a previous stream is active supersedes that
	// stream, which then terminates with Cancel.
	SendMessage(ctx context.Context, config ProviderConfig, messages []Message) *EventStream

	// TestConnection sends one minimal non-streaming request with a short
	// fixed timeout. Failures are returned as *StreamError.
	TestConnection(ctx context.Context, config ProviderConfig) (string, error)

	// Cancel aborts the active stream, if any. It is idempotent and safe to
	// call concurrently with an in-flight decode.
	Cancel()
}
