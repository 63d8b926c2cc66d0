package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/observability"
)

const (
	// DefaultProbeTimeout bounds TestConnection regardless of the configured timeout.
	DefaultProbeTimeout = 10 * time.Second

	// ProbeSuccess is the description returned by a successful TestConnection.
	ProbeSuccess = "connection ok"

	defaultEventBuffer = 16
)

// Adapter owns the transport lifecycle for one provider. It applies a Codec
// to encode requests and decode SSE payloads, and keeps a single active
// stream handle: a new SendMessage supersedes the previous stream, Cancel
// aborts it.
//
// Adapters are safe for concurrent use. Adapters for different providers
// share nothing.
type Adapter struct {
	codec        Codec
	httpClient   *http.Client
	observer     observability.Provider
	probeTimeout time.Duration
	eventBuffer  int
	newRequestID func() string

	clients sync.Map // time.Duration -> *http.Client

	mu     sync.Mutex
	active *streamHandle
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the per-timeout clients the adapter builds from
// ProviderConfig.TimeoutSeconds. The idle watchdog still applies.
func WithHTTPClient(client *http.Client) Option {
	return func(adapter *Adapter) {
		adapter.httpClient = client
	}
}

// WithObserver sets the observer used when the call context carries none.
func WithObserver(observer observability.Provider) Option {
	return func(adapter *Adapter) {
		adapter.observer = observer
	}
}

// WithProbeTimeout overrides DefaultProbeTimeout.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(adapter *Adapter) {
		if timeout > 0 {
			adapter.probeTimeout = timeout
		}
	}
}

// WithEventBuffer sets how many events may be queued ahead of the consumer.
func WithEventBuffer(size int) Option {
	return func(adapter *Adapter) {
		if size >= 0 {
			adapter.eventBuffer = size
		}
	}
}

// WithRequestIDGenerator replaces the UUID generator used for Start events.
func WithRequestIDGenerator(generate func() string) Option {
	return func(adapter *Adapter) {
		if generate != nil {
			adapter.newRequestID = generate
		}
	}
}

// NewAdapter creates an adapter for codec.
//
//	adapter := ai.NewAdapter(openai.New(), ai.WithObserver(slogobs.New()))
func NewAdapter(codec Codec, opts ...Option) *Adapter {
	adapter := &Adapter{
		codec:        codec,
		probeTimeout: DefaultProbeTimeout,
		eventBuffer:  defaultEventBuffer,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Ensure Adapter implements StreamAdapter
var _ StreamAdapter = (*Adapter)(nil)

func (adapter *Adapter) Name() string {
	return adapter.codec.Name()
}

// SendMessage starts a stream and returns immediately; decoding happens on a
// goroutine owned by the adapter. Cancelling ctx terminates the stream with
// Cancel, ctx deadline expiry with Error{NETWORK_ERROR}.
func (adapter *Adapter) SendMessage(ctx context.Context, config ProviderConfig, messages []Message) *EventStream {
	if ctx == nil {
		ctx = context.Background()
	}

	streamCtx, cancel := context.WithCancelCause(ctx)
	handle := newStreamHandle(adapter.newRequestID(), cancel)
	events := make(chan StreamEvent, adapter.eventBuffer)

	adapter.mu.Lock()
	previous := adapter.active
	adapter.active = handle
	adapter.mu.Unlock()

	if previous != nil && previous.stop(handleSuperseded, errSuperseded) {
		if observer := adapter.observerFor(ctx); observer != nil {
			observer.Debug(ctx, "Stream superseded",
				observability.String(observability.AttrLLMProvider, adapter.codec.Name()),
				observability.String(observability.AttrStreamRequestID, previous.requestID),
			)
		}
	}

	go adapter.run(streamCtx, handle, config, messages, events)

	return &EventStream{
		requestID: handle.requestID,
		events:    events,
		handle:    handle,
	}
}

// Cancel aborts the active stream, which then terminates with Cancel. With no
// active stream it does nothing.
func (adapter *Adapter) Cancel() {
	adapter.mu.Lock()
	handle := adapter.active
	adapter.active = nil
	adapter.mu.Unlock()

	if handle != nil {
		handle.stop(handleCancelled, errCancelled)
	}
}

// Active reports whether a stream is currently in flight.
func (adapter *Adapter) Active() bool {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	return adapter.active != nil
}

// release clears the slot if handle still owns it.
func (adapter *Adapter) release(handle *streamHandle) {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	if adapter.active == handle {
		adapter.active = nil
	}
}

func (adapter *Adapter) run(ctx context.Context, handle *streamHandle, config ProviderConfig, messages []Message, out chan<- StreamEvent) {
	defer close(out)
	defer handle.cancel(nil)

	ctx, telemetry := startStreamTelemetry(ctx, adapter.observerFor(ctx), adapter.codec.Name(), config, handle.requestID)

	terminal := adapter.stream(ctx, handle, config, messages, out, telemetry)
	terminal = handle.resolve(terminal)
	adapter.release(handle)
	telemetry.finish(terminal, handle.currentState())

	select {
	case out <- terminal:
	case <-handle.abandoned:
	}
}

// stream performs the request and forwards Start and Delta events. It returns
// the candidate terminal event without sending it.
func (adapter *Adapter) stream(ctx context.Context, handle *streamHandle, config ProviderConfig, messages []Message, out chan<- StreamEvent, telemetry *streamTelemetry) (terminal StreamEvent) {
	defer func() {
		if recovered := recover(); recovered != nil {
			terminal = ErrorEvent(CodeException, fmt.Sprintf("panic while streaming: %v", recovered))
		}
	}()

	request, err := adapter.codec.StreamRequest(config, messages)
	if err != nil {
		return requestBuildError(err).Event()
	}
	telemetry.prepared(request, len(messages))

	// Covers connect and header phases too when a custom client has no timeouts
	idleTimeout := config.Timeout()
	watchdog := utils.NewIdleWatchdog(idleTimeout, func() { handle.cancel(errIdleTimeout) })
	defer watchdog.Stop()

	response, err := utils.DoPostStream(ctx, adapter.clientFor(config), request.URL, request.Body, request.Header)
	if err != nil {
		var statusErr *utils.HTTPStatusError
		if errors.As(err, &statusErr) {
			telemetry.rejected(statusErr.StatusCode)
			return ErrorEvent(adapter.codec.ErrorCode(statusErr.StatusCode), statusErr.Message())
		}
		if ctx.Err() != nil {
			return contextTerminal(ctx, idleTimeout)
		}
		return ErrorEvent(CodeNetwork, err.Error())
	}
	defer utils.CloseWithLog(response.Body)

	if !send(ctx, out, StartEvent(handle.requestID)) {
		return contextTerminal(ctx, idleTimeout)
	}
	telemetry.opened(response.StatusCode)
	watchdog.Touch()

	accumulator := NewAccumulator(adapter.codec.NewDecoder())
	scanner := utils.NewSSEScanner(response.Body)
	for {
		payload, err := scanner.Next()
		if err != nil {
			if ctx.Err() != nil {
				return contextTerminal(ctx, idleTimeout)
			}
			if errors.Is(err, io.EOF) {
				return ErrorEvent(CodeNetwork, "stream closed before completion")
			}
			return ErrorEvent(CodeNetwork, err.Error())
		}
		watchdog.Touch()

		events, frame := accumulator.Feed(payload)
		if frame.Skipped {
			telemetry.frameSkipped(payload)
		}
		for _, event := range events {
			if event.IsTerminal() {
				return event
			}
			if !send(ctx, out, event) {
				return contextTerminal(ctx, idleTimeout)
			}
			telemetry.delta(event.Text)
		}
	}
}

// TestConnection sends the codec's probe request and reports ProbeSuccess or a
// *StreamError classified the same way as stream-open failures.
func (adapter *Adapter) TestConnection(ctx context.Context, config ProviderConfig) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, adapter.probeTimeout)
	defer cancel()

	observer := adapter.observerFor(ctx)
	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanProbe,
			observability.String(observability.AttrLLMProvider, adapter.codec.Name()),
			observability.String(observability.AttrLLMModel, config.Model),
		)
		defer span.End()
	}

	probeErr := adapter.probe(ctx, config)
	if span != nil {
		if probeErr != nil {
			span.RecordError(probeErr)
			span.SetStatus(observability.StatusError, string(probeErr.Code))
		} else {
			span.SetStatus(observability.StatusOK, ProbeSuccess)
		}
	}
	if probeErr != nil {
		return "", probeErr
	}
	return ProbeSuccess, nil
}

func (adapter *Adapter) probe(ctx context.Context, config ProviderConfig) *StreamError {
	request, err := adapter.codec.ProbeRequest(config)
	if err != nil {
		return requestBuildError(err)
	}

	_, _, err = utils.DoRequestSync(ctx, adapter.clientFor(config), request.Method, request.URL, request.Body, request.Header)
	if err == nil {
		return nil
	}

	var statusErr *utils.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &StreamError{Code: adapter.codec.ErrorCode(statusErr.StatusCode), Message: statusErr.Message()}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &StreamError{Code: CodeNetwork, Message: fmt.Sprintf("no response within %s", adapter.probeTimeout)}
	}
	return &StreamError{Code: CodeNetwork, Message: err.Error()}
}

func (adapter *Adapter) observerFor(ctx context.Context) observability.Provider {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		return observer
	}
	return adapter.observer
}

// clientFor returns the injected client, or one whose dial, TLS and
// response-header timeouts follow config. No overall Client.Timeout is set:
// it would cut long streams mid-body.
func (adapter *Adapter) clientFor(config ProviderConfig) *http.Client {
	if adapter.httpClient != nil {
		return adapter.httpClient
	}

	timeout := config.Timeout()
	if cached, ok := adapter.clients.Load(timeout); ok {
		return cached.(*http.Client)
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
		},
	}
	actual, _ := adapter.clients.LoadOrStore(timeout, client)
	return actual.(*http.Client)
}

func requestBuildError(err error) *StreamError {
	if errors.Is(err, ErrMissingAPIKey) {
		return &StreamError{Code: CodeAuth, Message: err.Error()}
	}
	return &StreamError{Code: CodeException, Message: fmt.Sprintf("building request: %v", err)}
}

// contextTerminal classifies a done stream context.
func contextTerminal(ctx context.Context, idleTimeout time.Duration) StreamEvent {
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, errIdleTimeout):
		return ErrorEvent(CodeNetwork, fmt.Sprintf("no data received for %s", idleTimeout))
	case errors.Is(cause, context.DeadlineExceeded):
		return ErrorEvent(CodeNetwork, "request deadline exceeded")
	default:
		return CancelEvent()
	}
}

func send(ctx context.Context, out chan<- StreamEvent, event StreamEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
