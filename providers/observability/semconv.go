package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across adapters, the dispatcher and the chat service.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the provider identifier (e.g., "openai", "anthropic", "gemini")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL, always redacted
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMMaxTokens is the maximum tokens allowed
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Stream Attributes ---

const (
	// AttrStreamRequestID is the request id carried by the Start event
	AttrStreamRequestID = "stream.request_id"

	// AttrStreamTerminal is the kind of terminal event ("complete", "error", "cancel")
	AttrStreamTerminal = "stream.terminal"

	// AttrStreamErrorCode is the canonical error code of an Error terminal
	AttrStreamErrorCode = "stream.error_code"

	// AttrStreamDeltaCount is the number of Delta events delivered
	AttrStreamDeltaCount = "stream.delta_count"

	// AttrStreamTextLength is the length of the accumulated text
	AttrStreamTextLength = "stream.text_length"

	// AttrStreamCancelCause describes why a handle stopped early
	AttrStreamCancelCause = "stream.cancel_cause"
)

// --- Request Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the request URL with secrets masked
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanStream is the span covering one sendMessage invocation
	SpanStream = "chatstream.stream"

	// SpanProbe is the span covering one testConnection call
	SpanProbe = "chatstream.probe"
)

// --- Event Names ---

const (
	// EventStreamOpened marks the transport accepting the stream (Start emitted)
	EventStreamOpened = "stream.opened"

	// EventStreamFirstDelta marks the first Delta delivered
	EventStreamFirstDelta = "stream.first_delta"

	// EventStreamTerminal marks the terminal event
	EventStreamTerminal = "stream.terminal"

	// EventStreamSuperseded marks a handle replaced by a newer sendMessage
	EventStreamSuperseded = "stream.superseded"

	// EventFrameSkipped marks an SSE frame that could not be decoded
	EventFrameSkipped = "stream.frame_skipped"
)

// --- Metric Names ---

const (
	// MetricStreamsStarted counts sendMessage invocations
	MetricStreamsStarted = "chatstream.streams.started"

	// MetricStreamsTerminated counts terminal events by kind and code
	MetricStreamsTerminated = "chatstream.streams.terminated"

	// MetricFirstDeltaLatency records milliseconds from send to first Delta
	MetricFirstDeltaLatency = "chatstream.stream.first_delta_ms"
)
