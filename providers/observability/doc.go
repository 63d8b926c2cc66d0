// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging across the streaming adapters.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Callers propagate an active
// [Provider] and [Span] through a [context.Context] using [ContextWithObserver]
// and [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext].
//
// semconv.go holds the attribute keys, span names and metric names. Request
// URLs must be redacted before they are recorded: the Gemini transport carries
// its API key in the query string.
package observability
