package listener

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Dispatcher resolves the realm's destination, serializes the event and
// posts it once. It keeps no state between events besides the shared
// transport and the compiled filter cache, and is safe for concurrent use.
type Dispatcher struct {
	config ConfigProvider
	client *http.Client
	logger zerolog.Logger
	hooks  []Hooks

	resolver  *Resolver
	filter    *Filter
	transport *Transport
}

// NewDispatcher builds a Dispatcher from opts.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		config: EnvProvider{},
		client: &http.Client{},
		logger: defaultLogger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	transport, err := NewTransport(d.client, d.logger)
	if err != nil {
		return nil, err
	}
	d.resolver = NewResolver(d.config)
	d.filter = NewFilter(d.logger)
	d.transport = transport
	return d, nil
}

// Deliver sends event to the webhook configured for realm. The returned
// error is always a *DeliveryError; the caller decides whether to log it
// or escalate. Deliver never retries.
func (d *Dispatcher) Deliver(ctx context.Context, realm, eventType string, event interface{}) (Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d.notifyReceived(ctx, realm, eventType)

	dest, err := d.resolver.Resolve(realm)
	if err != nil {
		return Receipt{}, d.fail(ctx, realm, eventType, KindMissingURL, err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return Receipt{URL: dest.URL}, d.fail(ctx, realm, eventType, KindSerialization, err)
	}

	if !d.filter.Allow(dest.Filter, realm, eventType, payload) {
		d.logger.Debug().
			Str("event_type", eventType).
			Str("realm", realm).
			Msg("Webhook filtered out")
		d.notifyFiltered(ctx, realm, eventType)
		return Receipt{URL: dest.URL, Filtered: true}, nil
	}

	receipt, err := d.transport.Send(ctx, dest, eventType, payload)
	if err != nil {
		return receipt, d.fail(ctx, realm, eventType, KindTransport, err)
	}

	d.logger.Info().
		Str("event_type", eventType).
		Str("realm", realm).
		Int("status", receipt.Status).
		Str("response", receipt.StatusLine).
		Msg("Webhook response")
	d.notifyDelivered(ctx, realm, eventType, receipt)
	return receipt, nil
}

// Close releases the transport.
func (d *Dispatcher) Close() error {
	return d.transport.Close()
}

func (d *Dispatcher) fail(ctx context.Context, realm, eventType string, kind ErrorKind, err error) error {
	deliveryErr := &DeliveryError{Kind: kind, Realm: realm, EventType: eventType, Err: err}
	d.notifyFailed(ctx, realm, eventType, deliveryErr)
	return deliveryErr
}
