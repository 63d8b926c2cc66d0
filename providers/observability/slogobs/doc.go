// Package slogobs implements [observability.Provider] with the standard
// library's log/slog. Configure it with [WithFormat], [WithLevel],
// [WithOutput] or [WithLogger], or let [New] read CHATSTREAM_LOG_FORMAT and
// CHATSTREAM_LOG_LEVEL from the environment.
package slogobs
