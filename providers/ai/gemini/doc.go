// Package gemini implements the Gemini streamGenerateContent codec
// (POST {baseUrl}/v1beta/models/{model}:streamGenerateContent?key=...&alt=sse).
//
// The API key is a query parameter, so the request URL is sensitive; 400
// responses are classified as AUTH_ERROR because that is how Gemini rejects a
// bad key.
package gemini
