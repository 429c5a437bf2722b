package listener

import "context"

// Hooks provides callbacks into the delivery path for logging, metrics, etc.
// Any field may be nil.
type Hooks struct {
	// OnReceived is called when an event reaches the dispatcher.
	OnReceived func(ctx context.Context, realm, eventType string)
	// OnDelivered is called when the destination answered, whatever the status.
	OnDelivered func(ctx context.Context, realm, eventType string, receipt Receipt)
	// OnFiltered is called when the realm filter rejected the event.
	OnFiltered func(ctx context.Context, realm, eventType string)
	// OnFailed is called when the event was dropped with a DeliveryError.
	OnFailed func(ctx context.Context, realm, eventType string, err error)
}

func (d *Dispatcher) notifyReceived(ctx context.Context, realm, eventType string) {
	for _, h := range d.hooks {
		if h.OnReceived != nil {
			h.OnReceived(ctx, realm, eventType)
		}
	}
}

func (d *Dispatcher) notifyDelivered(ctx context.Context, realm, eventType string, receipt Receipt) {
	for _, h := range d.hooks {
		if h.OnDelivered != nil {
			h.OnDelivered(ctx, realm, eventType, receipt)
		}
	}
}

func (d *Dispatcher) notifyFiltered(ctx context.Context, realm, eventType string) {
	for _, h := range d.hooks {
		if h.OnFiltered != nil {
			h.OnFiltered(ctx, realm, eventType)
		}
	}
}

func (d *Dispatcher) notifyFailed(ctx context.Context, realm, eventType string, err error) {
	for _, h := range d.hooks {
		if h.OnFailed != nil {
			h.OnFailed(ctx, realm, eventType, err)
		}
	}
}
