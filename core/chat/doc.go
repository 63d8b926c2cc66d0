// Package chat is the calling layer above the dispatcher. It resolves provider
// configuration up front and accumulates streamed events into a [Draft].
package chat
