// Package anthropic implements the Anthropic Messages streaming codec
// (POST {baseUrl}/v1/messages with x-api-key and anthropic-version headers).
//
// Only content_block_delta and message_stop events influence the canonical
// stream. System messages are not forwarded.
package anthropic
