package chat

import (
	"context"
	"fmt"

	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/core/dispatch"
	"github.com/leofalp/chatstream/providers/ai"
)

// Service is the calling layer: it resolves provider configuration before any
// network call, drives the dispatcher and keeps a Draft per reply.
type Service struct {
	source     config.Source
	dispatcher *dispatch.Dispatcher
}

func NewService(source config.Source, dispatcher *dispatch.Dispatcher) *Service {
	return &Service{source: source, dispatcher: dispatcher}
}

// Reply is one in-flight assistant reply.
type Reply struct {
	Draft    *Draft
	delivery *dispatch.Delivery
}

// Done is closed once the reply reached its terminal event.
func (r *Reply) Done() <-chan struct{} {
	return r.delivery.Done()
}

// Wait blocks until the reply terminates or ctx is done.
func (r *Reply) Wait(ctx context.Context) (DraftSnapshot, error) {
	if _, err := r.delivery.Wait(ctx); err != nil {
		return r.Draft.Snapshot(), err
	}
	return r.Draft.Snapshot(), nil
}

// Send streams a reply to history from providerID. A provider without a usable
// configuration fails with config.ErrNotConfigured and nothing is sent.
// onEvent, if set, is called after each event has been applied to the draft.
func (s *Service) Send(ctx context.Context, providerID string, history []ai.Message, onEvent dispatch.EventHandler) (*Reply, error) {
	providerConfig, err := s.source.Lookup(providerID)
	if err != nil {
		return nil, err
	}

	draft := NewDraft()
	handler := func(event ai.StreamEvent) {
		draft.Apply(event)
		if onEvent != nil {
			onEvent(event)
		}
	}
	delivery, err := s.dispatcher.SendMessage(ctx, providerID, providerConfig, history, handler)
	if err != nil {
		return nil, fmt.Errorf("error sending to %s: %w", providerID, err)
	}
	return &Reply{Draft: draft, delivery: delivery}, nil
}

// TestConnection probes providerID with its resolved configuration.
func (s *Service) TestConnection(ctx context.Context, providerID string) (string, error) {
	providerConfig, err := s.source.Lookup(providerID)
	if err != nil {
		return "", err
	}
	return s.dispatcher.TestConnection(ctx, providerID, providerConfig)
}

// Cancel stops the active reply of providerID, if any.
func (s *Service) Cancel(providerID string) error {
	return s.dispatcher.CancelStream(providerID)
}
