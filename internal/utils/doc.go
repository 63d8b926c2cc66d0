// Package utils provides shared low-level helpers for the provider codecs.
// It covers JSON-over-HTTP requests for both synchronous probes and
// streaming (SSE) communication, error body decoding, URL redaction for
// logs, an idle-stream watchdog, and small generic helpers.
//
// Key entry points: [DoPostStream] together with [SSEScanner] for
// Server-Sent Events, [DoRequestSync] for connection probes,
// [ErrorMessageFromBody] for turning provider error payloads into messages,
// and [RedactURL] for anything that ends up in a log record.
package utils
