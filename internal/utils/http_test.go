package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---- DoRequestSync tests ----------------------------------------------------

// TestDoRequestSync_GetWithoutBody verifies that a nil body sends no payload
// and no Content-Type, as the Gemini model lookup probe requires.
func TestDoRequestSync_GetWithoutBody(t *testing.T) {
	var capturedMethod, capturedContentType string
	var capturedBodyLen int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedMethod = r.Method
		capturedContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		capturedBodyLen = len(body)
		fmt.Fprint(w, `{"name":"models/gemini-pro"}`)
	}))
	defer server.Close()

	status, body, err := DoRequestSync(context.Background(), server.Client(), http.MethodGet, server.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("expected status 200, got %d", status)
	}
	if string(body) != `{"name":"models/gemini-pro"}` {
		t.Errorf("unexpected body %q", body)
	}
	if capturedMethod != http.MethodGet || capturedContentType != "" || capturedBodyLen != 0 {
		t.Errorf("expected bare GET, got method=%s content-type=%q body=%d", capturedMethod, capturedContentType, capturedBodyLen)
	}
}

// TestDoRequestSync_PostJSON verifies JSON encoding and header propagation.
func TestDoRequestSync_PostJSON(t *testing.T) {
	var capturedBody, capturedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedBody = string(body)
		capturedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer sk-test")

	_, _, err := DoRequestSync(context.Background(), server.Client(), http.MethodPost, server.URL, map[string]int{"max_tokens": 10}, headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedBody != `{"max_tokens":10}` {
		t.Errorf("unexpected request body %q", capturedBody)
	}
	if capturedAuth != "Bearer sk-test" {
		t.Errorf("unexpected Authorization %q", capturedAuth)
	}
}

// TestDoRequestSync_Non2xxStatus verifies that non-2xx responses return the
// status code together with an *HTTPStatusError.
func TestDoRequestSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	status, _, err := DoRequestSync(context.Background(), server.Client(), http.MethodPost, server.URL, map[string]string{}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", status)
	}

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *HTTPStatusError, got %v", err)
	}
	if statusErr.Message() != "invalid x-api-key" {
		t.Errorf("unexpected message %q", statusErr.Message())
	}
}

// TestDoRequestSync_RequestCreateError verifies that an invalid URL fails
// before any network activity.
func TestDoRequestSync_RequestCreateError(t *testing.T) {
	_, _, err := DoRequestSync(context.Background(), nil, http.MethodGet, "://bad-url", nil, nil)
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

// TestDoRequestSync_MarshalError verifies that unencodable bodies are reported.
func TestDoRequestSync_MarshalError(t *testing.T) {
	_, _, err := DoRequestSync(context.Background(), nil, http.MethodPost, "http://localhost", map[string]any{"bad": make(chan int)}, nil)
	if err == nil {
		t.Fatal("expected marshal error, got nil")
	}
}

// ---- CloseWithLog tests -----------------------------------------------------

// errCloser is a mock io.Closer that always returns the configured error.
type errCloser struct {
	closeErr error
}

func (ec *errCloser) Close() error {
	return ec.closeErr
}

// TestCloseWithLog_ErrorPath verifies that CloseWithLog does not panic when
// the underlying closer returns an error. The error is only logged via slog.
func TestCloseWithLog_ErrorPath(t *testing.T) {
	closer := &errCloser{closeErr: errors.New("close error")}

	CloseWithLog(closer)
	CloseWithLog(nil)
}
