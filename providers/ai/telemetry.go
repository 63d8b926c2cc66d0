package ai

import (
	"context"
	"time"

	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/observability"
)

// streamTelemetry records one stream's span, logs and metrics. Every method is
// a no-op without an observer.
type streamTelemetry struct {
	ctx       context.Context
	observer  observability.Provider
	span      observability.Span
	provider  string
	model     string
	requestID string

	startTime  time.Time
	deltas     int
	textLength int
	wasOpened  bool
}

func startStreamTelemetry(ctx context.Context, observer observability.Provider, provider string, config ProviderConfig, requestID string) (context.Context, *streamTelemetry) {
	telemetry := &streamTelemetry{
		observer:  observer,
		provider:  provider,
		model:     config.Model,
		requestID: requestID,
		startTime: time.Now(),
	}
	if observer == nil {
		telemetry.ctx = ctx
		return ctx, telemetry
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, provider),
		observability.String(observability.AttrLLMModel, config.Model),
		observability.String(observability.AttrStreamRequestID, requestID),
	}
	if config.Temperature != nil {
		attrs = append(attrs, observability.Float64(observability.AttrLLMTemperature, *config.Temperature))
	}
	if config.MaxTokens != nil {
		attrs = append(attrs, observability.Int(observability.AttrLLMMaxTokens, *config.MaxTokens))
	}

	ctx, telemetry.span = observer.StartSpan(ctx, observability.SpanStream, attrs...)
	ctx = observability.ContextWithObserver(ctx, observer)
	telemetry.ctx = ctx
	return ctx, telemetry
}

func (t *streamTelemetry) prepared(request WireRequest, messageCount int) {
	if t.observer == nil {
		return
	}
	t.span.SetAttributes(
		observability.String(observability.AttrLLMEndpoint, utils.RedactURL(request.URL)),
		observability.Int(observability.AttrRequestMessagesCount, messageCount),
	)
	t.observer.Debug(t.ctx, "Opening stream",
		observability.String(observability.AttrLLMProvider, t.provider),
		observability.String(observability.AttrLLMModel, t.model),
		observability.String(observability.AttrHTTPURL, utils.RedactURL(request.URL)),
	)
}

func (t *streamTelemetry) rejected(status int) {
	if t.observer == nil {
		return
	}
	t.span.SetAttributes(observability.Int(observability.AttrHTTPStatusCode, status))
}

func (t *streamTelemetry) opened(status int) {
	t.wasOpened = true
	if t.observer == nil {
		return
	}
	t.span.AddEvent(observability.EventStreamOpened, observability.Int(observability.AttrHTTPStatusCode, status))
	t.observer.Counter(observability.MetricStreamsStarted).Add(t.ctx, 1,
		observability.String(observability.AttrLLMProvider, t.provider),
	)
}

func (t *streamTelemetry) delta(text string) {
	t.deltas++
	t.textLength += len(text)
	if t.observer == nil || t.deltas != 1 {
		return
	}
	latency := time.Since(t.startTime)
	t.span.AddEvent(observability.EventStreamFirstDelta, observability.Duration(observability.AttrDuration, latency))
	t.observer.Histogram(observability.MetricFirstDeltaLatency).Record(t.ctx, float64(latency.Milliseconds()),
		observability.String(observability.AttrLLMProvider, t.provider),
	)
}

func (t *streamTelemetry) frameSkipped(payload string) {
	if t.observer == nil {
		return
	}
	t.observer.Trace(t.ctx, "Skipping undecodable frame",
		observability.String(observability.AttrLLMProvider, t.provider),
		observability.String("frame", utils.TruncateString(payload, 200)),
	)
}

func (t *streamTelemetry) finish(terminal StreamEvent, state handleState) {
	if t.observer == nil {
		return
	}
	defer t.span.End()

	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, t.provider),
		observability.String(observability.AttrStreamTerminal, string(terminal.Type)),
	}
	if terminal.Type == StreamEventError {
		attrs = append(attrs, observability.String(observability.AttrStreamErrorCode, string(terminal.Code)))
	}
	t.observer.Counter(observability.MetricStreamsTerminated).Add(t.ctx, 1, attrs...)

	t.span.AddEvent(observability.EventStreamTerminal, attrs...)
	t.span.SetAttributes(
		observability.Int(observability.AttrStreamDeltaCount, t.deltas),
		observability.Int(observability.AttrStreamTextLength, t.textLength),
		observability.Duration(observability.AttrDuration, time.Since(t.startTime)),
	)

	switch terminal.Type {
	case StreamEventComplete:
		t.span.SetStatus(observability.StatusOK, "")
		t.observer.Info(t.ctx, "Stream completed",
			observability.String(observability.AttrLLMProvider, t.provider),
			observability.String(observability.AttrStreamRequestID, t.requestID),
			observability.Int(observability.AttrStreamDeltaCount, t.deltas),
		)
	case StreamEventCancel:
		t.span.SetAttributes(observability.String(observability.AttrStreamCancelCause, state.String()))
		t.observer.Info(t.ctx, "Stream cancelled",
			observability.String(observability.AttrLLMProvider, t.provider),
			observability.String(observability.AttrStreamRequestID, t.requestID),
			observability.String(observability.AttrStreamCancelCause, state.String()),
		)
	case StreamEventError:
		t.span.SetStatus(observability.StatusError, terminal.Message)
		t.observer.Warn(t.ctx, "Stream failed",
			observability.String(observability.AttrLLMProvider, t.provider),
			observability.String(observability.AttrStreamRequestID, t.requestID),
			observability.String(observability.AttrStreamErrorCode, string(terminal.Code)),
			observability.String(observability.AttrError, terminal.Message),
			observability.Bool("stream.opened", t.wasOpened),
		)
	}
}
