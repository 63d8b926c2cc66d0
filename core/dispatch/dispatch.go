package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/ai/anthropic"
	"github.com/leofalp/chatstream/providers/ai/gemini"
	"github.com/leofalp/chatstream/providers/ai/openai"
	"github.com/leofalp/chatstream/providers/observability"
)

// ErrUnknownProvider is returned for provider ids with no registered adapter.
var ErrUnknownProvider = ai.ErrUnknownProvider

// EventHandler receives the events of one stream, in order, ending with exactly
// one terminal event. It runs on a goroutine owned by the dispatcher.
type EventHandler func(event ai.StreamEvent)

// Dispatcher maps provider ids to adapter singletons. Cancellation is routed by
// provider id, so two conversations sharing a provider share its active slot.
type Dispatcher struct {
	mu       sync.RWMutex
	adapters map[string]ai.StreamAdapter
}

// New creates a dispatcher with the given adapters registered.
func New(adapters ...ai.StreamAdapter) *Dispatcher {
	d := &Dispatcher{adapters: make(map[string]ai.StreamAdapter, len(adapters))}
	for _, adapter := range adapters {
		d.Register(adapter)
	}
	return d
}

// NewDefault registers the OpenAI, Anthropic and Gemini adapters, each built
// with opts.
func NewDefault(opts ...ai.Option) *Dispatcher {
	return New(
		openai.NewAdapter(opts...),
		anthropic.NewAdapter(opts...),
		gemini.NewAdapter(opts...),
	)
}

// Register adds adapter under its Name, replacing any previous registration.
func (d *Dispatcher) Register(adapter ai.StreamAdapter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.adapters[adapter.Name()] = adapter
}

// Adapter returns the adapter registered for providerID.
func (d *Dispatcher) Adapter(providerID string) (ai.StreamAdapter, error) {
	d.mu.RLock()
	adapter, ok := d.adapters[providerID]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	return adapter, nil
}

// Providers returns the registered provider ids, sorted.
func (d *Dispatcher) Providers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.adapters))
	for id := range d.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SendMessage starts a stream on the provider's adapter and returns at once.
// Events are passed to onEvent from a separate goroutine; the returned
// Delivery reports when the terminal event has been handled. The only error is
// an unknown provider, raised before anything is sent.
func (d *Dispatcher) SendMessage(ctx context.Context, providerID string, config ai.ProviderConfig, messages []ai.Message, onEvent EventHandler) (*Delivery, error) {
	adapter, err := d.Adapter(providerID)
	if err != nil {
		return nil, err
	}
	if config.ProviderID == "" {
		config.ProviderID = providerID
	}

	stream := adapter.SendMessage(ctx, config, messages)
	delivery := &Delivery{requestID: stream.RequestID(), done: make(chan struct{})}
	go delivery.run(ctx, stream, onEvent)
	return delivery, nil
}

// TestConnection runs the provider's connectivity probe.
func (d *Dispatcher) TestConnection(ctx context.Context, providerID string, config ai.ProviderConfig) (string, error) {
	adapter, err := d.Adapter(providerID)
	if err != nil {
		return "", err
	}
	if config.ProviderID == "" {
		config.ProviderID = providerID
	}
	return adapter.TestConnection(ctx, config)
}

// CancelStream cancels whichever stream is active on the provider's adapter.
func (d *Dispatcher) CancelStream(providerID string) error {
	adapter, err := d.Adapter(providerID)
	if err != nil {
		return err
	}
	adapter.Cancel()
	return nil
}

// CancelAll cancels the active stream of every registered adapter.
func (d *Dispatcher) CancelAll() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, adapter := range d.adapters {
		adapter.Cancel()
	}
}

// Delivery tracks the callback side of one stream.
type Delivery struct {
	requestID string
	done      chan struct{}
	terminal  ai.StreamEvent
}

// RequestID is the id carried by the stream's Start event.
func (delivery *Delivery) RequestID() string {
	return delivery.requestID
}

// Done is closed once the terminal event has been handed to the callback.
func (delivery *Delivery) Done() <-chan struct{} {
	return delivery.done
}

// Wait blocks until the stream terminates or ctx is done, and returns the
// terminal event delivered.
func (delivery *Delivery) Wait(ctx context.Context) (ai.StreamEvent, error) {
	select {
	case <-delivery.done:
		return delivery.terminal, nil
	case <-ctx.Done():
		return ai.StreamEvent{}, ctx.Err()
	}
}

func (delivery *Delivery) run(ctx context.Context, stream *ai.EventStream, onEvent EventHandler) {
	defer close(delivery.done)
	defer stream.Close()

	for {
		event, ok := stream.Next()
		if !ok {
			return
		}
		recovered := invoke(onEvent, event)
		if recovered == nil {
			if event.IsTerminal() {
				delivery.terminal = event
			}
			continue
		}

		logHandlerPanic(ctx, delivery.requestID, recovered)
		if event.IsTerminal() {
			delivery.terminal = event
			return
		}
		// The handler failed mid-stream: stop the request and close the
		// stream for the caller with a single EXCEPTION terminal.
		terminal := ai.ErrorEvent(ai.CodeException, fmt.Sprintf("event handler panicked: %v", recovered))
		stream.Close()
		invoke(onEvent, terminal)
		delivery.terminal = terminal
		return
	}
}

// invoke calls onEvent and returns the recovered panic value, if any.
func invoke(onEvent EventHandler, event ai.StreamEvent) (recovered any) {
	if onEvent == nil {
		return nil
	}
	defer func() {
		recovered = recover()
	}()
	onEvent(event)
	return nil
}

func logHandlerPanic(ctx context.Context, requestID string, recovered any) {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Error(ctx, "event handler panicked",
			observability.String(observability.AttrStreamRequestID, requestID),
			observability.String(observability.AttrError, fmt.Sprint(recovered)),
		)
		return
	}
	slog.Error("event handler panicked", "request_id", requestID, "panic", recovered)
}
