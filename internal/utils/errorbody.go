package utils

import (
	"bytes"
	"encoding/json"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/kaptinlin/jsonrepair"
)

// MaxErrorMessageLength caps messages extracted from error bodies (2 KB).
const MaxErrorMessageLength = 2048

// ErrorMessageFromBody turns a provider error body into a single-line,
// human-readable message. It understands:
//   - JSON envelopes: {"error":{"message":...}}, {"error":"..."}, {"message":...},
//     and Gemini's array form [{"error":{...}}]
//   - truncated JSON, which is repaired before decoding
//   - HTML error pages from proxies and gateways, converted to text
//
// Anything else is returned trimmed and whitespace-collapsed. An empty body
// yields "".
func ErrorMessageFromBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var message string
	switch {
	case trimmed[0] == '{' || trimmed[0] == '[':
		message = messageFromJSON(string(trimmed))
	case strings.Contains(strings.ToLower(contentType), "html") || trimmed[0] == '<':
		message = messageFromHTML(string(trimmed))
	}
	if message == "" {
		message = string(trimmed)
	}

	return TruncateString(CollapseWhitespace(message), MaxErrorMessageLength)
}

func messageFromJSON(content string) string {
	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return ""
		}
		if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
			return ""
		}
	}
	return extractMessage(decoded)
}

// extractMessage walks the common error envelope shapes.
func extractMessage(decoded any) string {
	switch value := decoded.(type) {
	case []any:
		if len(value) > 0 {
			return extractMessage(value[0])
		}
	case map[string]any:
		switch inner := value["error"].(type) {
		case string:
			return inner
		case map[string]any:
			if message, ok := inner["message"].(string); ok && message != "" {
				return message
			}
		}
		if message, ok := value["message"].(string); ok {
			return message
		}
	}
	return ""
}

func messageFromHTML(content string) string {
	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(markdown)
}
