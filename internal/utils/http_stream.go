package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leofalp/chatstream/providers/observability"
)

// maxSSELineSize is the maximum size of a single SSE line (1 MB).
// The default bufio.Scanner limit is 64 KiB, which long completions can exceed.
// A longer line makes Next return an error wrapping bufio.ErrTooLong.
const maxSSELineSize = 1 * 1024 * 1024

// maxResponseBodySize caps how much of a non-2xx body is read (10 MB).
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HTTPStatusError is returned when the server answers with a non-2xx status.
// Body holds at most maxResponseBodySize bytes of the response.
type HTTPStatusError struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateString(string(e.Body), 200))
}

// Message returns a readable description of the error body (see ErrorMessageFromBody),
// falling back to the HTTP status line.
func (e *HTTPStatusError) Message() string {
	if message := ErrorMessageFromBody(e.ContentType, e.Body); message != "" {
		return message
	}
	if e.Status != "" {
		return e.Status
	}
	return http.StatusText(e.StatusCode)
}

// DoPostStream performs an HTTP POST with a JSON body and returns the response
// with its body left open for SSE reading. The caller must close the body.
// For non-2xx responses the body is read, closed, and returned inside an
// *HTTPStatusError; the response is returned too so callers can inspect it.
//
// Authentication headers come from the headers argument: each codec knows its
// own scheme (Bearer, x-api-key, or a key in the URL).
func DoPostStream(ctx context.Context, client *http.Client, url string, body any, headers http.Header) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.stream_request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, RedactURL(url)),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", redactURLError(err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	requestStart := time.Now()
	response, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		err = redactURLError(err)
		if span != nil {
			span.AddEvent("http.stream_request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, fmt.Errorf("error sending stream request: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		return response, readStatusError(response)
	}

	if span != nil {
		span.AddEvent("http.stream_response.started",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	return response, nil
}

// readStatusError drains a capped amount of the body into an *HTTPStatusError.
func readStatusError(response *http.Response) error {
	errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	statusErr := &HTTPStatusError{
		StatusCode:  response.StatusCode,
		Status:      response.Status,
		ContentType: response.Header.Get("Content-Type"),
		Body:        errorBody,
	}
	if readErr != nil && len(errorBody) == 0 {
		statusErr.Body = []byte(fmt.Sprintf("failed to read body: %v", readErr))
	}
	return statusErr
}

// CloseWithLog closes c and logs, rather than returns, any close error.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// SSEScanner reads Server-Sent Events (SSE) from an io.Reader.
// It joins multi-line data fields, skips comments, blank keep-alives and
// non-data fields (event:, id:, retry:), and returns each data payload
// verbatim. Sentinels such as OpenAI's [DONE] are left for the codec to
// interpret.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner that reads SSE events from the given reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload in arrival order.
// Multiple consecutive "data:" lines are joined with newlines into one payload.
// Returns io.EOF when the underlying reader is exhausted.
func (sseScanner *SSEScanner) Next() (string, error) {
	var dataLines []string

	for sseScanner.scanner.Scan() {
		line := sseScanner.scanner.Text()

		// Empty line signals end of an event; flush accumulated data lines
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		// Skip SSE comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimPrefix(line, "data:")
			dataLines = append(dataLines, strings.TrimSpace(data))
			continue
		}

		// event:, id:, retry: carry nothing the codecs need
	}

	if err := sseScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	// A final event without the trailing blank line still counts
	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
