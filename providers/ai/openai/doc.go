// Package openai implements the OpenAI-compatible streaming codec
// (POST {baseUrl}/v1/chat/completions, Bearer auth, SSE terminated by
// "data: [DONE]"). It works against api.openai.com and any server exposing
// the same chat completions surface.
package openai
