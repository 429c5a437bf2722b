package listener

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Session is the host's per-request session. Only the current realm is
// needed to route events.
type Session interface {
	RealmName() string
}

// RealmSession is a Session bound to a fixed realm name.
type RealmSession string

// RealmName returns the realm name.
func (s RealmSession) RealmName() string {
	return string(s)
}

// EventListener receives the host's event callbacks.
type EventListener interface {
	OnEvent(ctx context.Context, event Event)
	OnAdminEvent(ctx context.Context, event AdminEvent, includeRepresentation bool)
	Close()
}

// Provider forwards the events of one session to the realm's webhook.
// Delivery failures are logged and dropped; nothing is returned to the host.
type Provider struct {
	session    Session
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

var _ EventListener = (*Provider)(nil)

// NewProvider returns a Provider for session that delivers through dispatcher.
func NewProvider(session Session, dispatcher *Dispatcher) *Provider {
	return &Provider{
		session:    session,
		dispatcher: dispatcher,
		logger:     dispatcher.logger,
	}
}

// OnEvent forwards a user event.
func (p *Provider) OnEvent(ctx context.Context, event Event) {
	p.logger.Info().
		Str("type", event.Type).
		Str("user_id", event.UserID).
		Msg("Received event")
	p.dispatch(ctx, UserEventType, event)
}

// OnAdminEvent forwards an admin event. includeRepresentation is accepted
// for the host's benefit and does not change what is sent.
func (p *Provider) OnAdminEvent(ctx context.Context, event AdminEvent, includeRepresentation bool) {
	p.logger.Info().
		Str("operation_type", event.OperationType).
		Str("resource_type", event.ResourceType).
		Bool("include_representation", includeRepresentation).
		Msg("Received admin event")
	p.dispatch(ctx, AdminEventType, event)
}

// Close logs only; the shared transport belongs to the factory.
func (p *Provider) Close() {
	p.logger.Info().Msg("Closing webhook event listener provider")
}

func (p *Provider) dispatch(ctx context.Context, eventType string, event interface{}) {
	var realm string
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("event_type", eventType).
				Str("realm", realm).
				Str("panic", fmt.Sprint(r)).
				Msg("Error while sending webhook")
		}
	}()

	if p.session != nil {
		realm = p.session.RealmName()
	}
	if _, err := p.dispatcher.Deliver(ctx, realm, eventType, event); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("realm", realm).
			Stringer("kind", KindOf(err)).
			Msg("Error while sending webhook")
	}
}
