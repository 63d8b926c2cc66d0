package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---- SSEScanner tests -------------------------------------------------------

// TestSSEScanner_SingleEvent verifies that a simple "data: <payload>\n\n"
// produces exactly one payload and then io.EOF.
func TestSSEScanner_SingleEvent_ReturnsSinglePayload(t *testing.T) {
	input := "data: hello\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "hello" {
		t.Errorf("expected payload %q, got %q", "hello", payload)
	}

	_, err = scanner.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF after last event, got %v", err)
	}
}

// TestSSEScanner_MultipleEvents verifies that multiple events separated by
// blank lines are returned in order.
func TestSSEScanner_MultipleEvents_ReturnsInOrder(t *testing.T) {
	input := "data: first\n\ndata: second\n\ndata: third\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	expectedPayloads := []string{"first", "second", "third"}
	for _, expected := range expectedPayloads {
		payload, err := scanner.Next()
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if payload != expected {
			t.Errorf("expected %q, got %q", expected, payload)
		}
	}

	_, err := scanner.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestSSEScanner_MultiLineDataEvent verifies that consecutive "data:" lines
// within a single event are joined with newlines into a single payload.
func TestSSEScanner_MultiLineDataEvent_JoinsWithNewline(t *testing.T) {
	input := "data: line1\ndata: line2\ndata: line3\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	expected := "line1\nline2\nline3"
	if payload != expected {
		t.Errorf("expected %q, got %q", expected, payload)
	}
}

// TestSSEScanner_SkipsComments verifies that lines starting with ":" are
// treated as SSE comments and ignored.
func TestSSEScanner_SkipsComments_ReturnsOnlyDataEvents(t *testing.T) {
	input := ": this is a comment\ndata: real payload\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "real payload" {
		t.Errorf("expected %q, got %q", "real payload", payload)
	}
}

// TestSSEScanner_DoneSentinel verifies that "data: [DONE]" is returned as an
// ordinary payload; interpreting it is the codec's job.
func TestSSEScanner_DoneSentinel_ReturnsVerbatim(t *testing.T) {
	input := "data: before\n\ndata: [DONE]\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	if _, err := scanner.Next(); err != nil {
		t.Fatalf("expected nil error on first event, got %v", err)
	}

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error on [DONE], got %v", err)
	}
	if payload != "[DONE]" {
		t.Errorf("expected %q, got %q", "[DONE]", payload)
	}

	if _, err = scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after [DONE], got %v", err)
	}
}

// TestSSEScanner_OversizedLine verifies that a line above the 1 MB limit is
// reported as an error instead of being silently split.
func TestSSEScanner_OversizedLine_ReturnsError(t *testing.T) {
	input := "data: " + strings.Repeat("x", maxSSELineSize+1) + "\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	if _, err := scanner.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected scanner error for oversized line, got %v", err)
	}
}

// TestSSEScanner_EmptyStream verifies that an empty input returns io.EOF
// immediately without panicking.
func TestSSEScanner_EmptyStream_ReturnsEOF(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader(""))

	_, err := scanner.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF for empty stream, got %v", err)
	}
}

// TestSSEScanner_TrailingDataWithoutFinalBlankLine verifies that data lines
// present at the end of the stream (with no trailing blank line) are still
// returned by Next() rather than silently dropped.
func TestSSEScanner_TrailingDataWithoutFinalBlankLine_ReturnsPayload(t *testing.T) {
	// No trailing "\n\n": the stream just ends after the data line.
	input := "data: no-trailing-blank"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "no-trailing-blank" {
		t.Errorf("expected %q, got %q", "no-trailing-blank", payload)
	}
}

// TestSSEScanner_WhitespaceTrimming verifies that leading/trailing whitespace
// after the "data:" prefix is trimmed from the payload.
func TestSSEScanner_WhitespaceTrimming_TrimsPayload(t *testing.T) {
	input := "data:   padded value   \n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "padded value" {
		t.Errorf("expected %q, got %q", "padded value", payload)
	}
}

// TestSSEScanner_SkipsNonDataFields verifies that SSE fields other than
// "data:" (e.g. "event:", "id:", "retry:") are silently ignored.
func TestSSEScanner_SkipsNonDataFields_IgnoresOtherFields(t *testing.T) {
	input := "event: update\nid: 42\nretry: 3000\ndata: payload\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "payload" {
		t.Errorf("expected %q, got %q", "payload", payload)
	}
}

// TestSSEScanner_ConsecutiveBlankLines verifies that multiple consecutive
// blank lines between events do not cause duplicate or empty payloads.
func TestSSEScanner_ConsecutiveBlankLines_SkipsEmpty(t *testing.T) {
	input := "data: event1\n\n\n\ndata: event2\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload1, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error on first call, got %v", err)
	}
	if payload1 != "event1" {
		t.Errorf("expected %q, got %q", "event1", payload1)
	}

	payload2, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error on second call, got %v", err)
	}
	if payload2 != "event2" {
		t.Errorf("expected %q, got %q", "event2", payload2)
	}

	_, err = scanner.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// ---- DoPostStream tests -----------------------------------------------------

// TestDoPostStream_SuccessResponse_ReturnsOpenBody verifies that a 200 response
// leaves the body open for the caller to read from (SSE consumption pattern).
func TestDoPostStream_SuccessResponse_ReturnsOpenBody(t *testing.T) {
	ssePayload := "data: chunk1\n\ndata: [DONE]\n\n"
	var capturedAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ssePayload)
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, map[string]string{"q": "test"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer CloseWithLog(response.Body)

	// Body must still be readable; consume via SSEScanner
	scanner := NewSSEScanner(response.Body)
	payload, scanErr := scanner.Next()
	if scanErr != nil {
		t.Fatalf("expected nil error reading SSE, got %v", scanErr)
	}
	if payload != "chunk1" {
		t.Errorf("expected %q, got %q", "chunk1", payload)
	}
	if capturedAccept != "text/event-stream" {
		t.Errorf("expected Accept text/event-stream, got %q", capturedAccept)
	}
}

// TestDoPostStream_NonTwoxxResponse_ReturnsStatusError verifies that a non-2xx
// status comes back as an *HTTPStatusError carrying status and body.
func TestDoPostStream_NonTwoxxResponse_ReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded"}}`)
	}))
	defer server.Close()

	_, err := DoPostStream(context.Background(), server.Client(), server.URL, map[string]string{}, nil)
	if err == nil {
		t.Fatal("expected error for non-2xx response, got nil")
	}

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *HTTPStatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", statusErr.StatusCode)
	}
	if statusErr.Message() != "rate limit exceeded" {
		t.Errorf("expected message %q, got %q", "rate limit exceeded", statusErr.Message())
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected error to contain status code 429, got: %v", err)
	}
}

// TestHTTPStatusError_Message_FallsBackToStatus verifies that an empty body
// still produces a non-empty message.
func TestHTTPStatusError_Message_FallsBackToStatus(t *testing.T) {
	statusErr := &HTTPStatusError{StatusCode: http.StatusBadGateway}
	if got := statusErr.Message(); got != "Bad Gateway" {
		t.Errorf("expected %q, got %q", "Bad Gateway", got)
	}
}

// TestDoPostStream_ContextCancellation_ReturnsError verifies that a
// pre-cancelled context causes DoPostStream to return an error immediately.
func TestDoPostStream_ContextCancellation_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoPostStream(cancelledCtx, server.Client(), server.URL, map[string]string{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// TestDoPostStream_NetworkError_RedactsKey verifies that an unreachable
// server yields a wrapped error that does not echo the query-string key.
func TestDoPostStream_NetworkError_RedactsKey(t *testing.T) {
	_, err := DoPostStream(context.Background(), nil, "http://127.0.0.1:1/v1?key=supersecret", map[string]string{}, nil)
	if err == nil {
		t.Fatal("expected network error, got nil")
	}
	if strings.Contains(err.Error(), "supersecret") {
		t.Errorf("expected key to be redacted, got %v", err)
	}
}

// TestDoPostStream_AppliesHeaders verifies that codec-supplied headers reach
// the outgoing request.
func TestDoPostStream_AppliesHeaders(t *testing.T) {
	var capturedKey, capturedVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedKey = r.Header.Get("x-api-key")
		capturedVersion = r.Header.Get("anthropic-version")
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("x-api-key", "provider-token-123")
	headers.Set("anthropic-version", "2023-06-01")

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, map[string]string{}, headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	CloseWithLog(response.Body)

	if capturedKey != "provider-token-123" {
		t.Errorf("expected x-api-key %q, got %q", "provider-token-123", capturedKey)
	}
	if capturedVersion != "2023-06-01" {
		t.Errorf("expected anthropic-version %q, got %q", "2023-06-01", capturedVersion)
	}
}
