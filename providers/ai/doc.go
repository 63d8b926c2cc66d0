// Package ai defines the provider-neutral streaming contract shared by every
// vendor codec (OpenAI-compatible, Anthropic, Gemini).
//
// Callers send a conversation ([Message]) with a [ProviderConfig] snapshot to
// an [Adapter] and receive an [EventStream] of canonical [StreamEvent] values:
// Start, zero or more Deltas, and exactly one terminal Complete, Error or
// Cancel. Each vendor package supplies a [Codec] that builds the HTTP request
// and a [Decoder] that turns SSE payloads into [Frame] values; the Adapter
// owns transport, timeouts, cancellation and supersession.
//
// Error events carry an [ErrorCode] from a closed taxonomy; [CodeForStatus]
// implements the status mapping used at stream-open time.
package ai
