package listener

import (
	"errors"
	"fmt"
)

// ErrMissingURL is returned when no webhook URL is configured for a realm.
var ErrMissingURL = errors.New("webhook url not configured")

// ErrorKind classifies a failed delivery.
type ErrorKind int

const (
	KindMissingURL ErrorKind = iota + 1
	KindSerialization
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingURL:
		return "missing_url"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// DeliveryError is returned by Dispatcher.Deliver when an event could not be
// handed to its destination. The event has been dropped; nothing retries it.
type DeliveryError struct {
	Kind      ErrorKind
	Realm     string
	EventType string
	Err       error
}

func (e *DeliveryError) Error() string {
	if e.Kind == KindMissingURL {
		return fmt.Sprintf("%s: realm %q: set the %s environment variable", e.Err, e.Realm, VariableName(URLPrefix, e.Realm))
	}
	return fmt.Sprintf("%s %s for realm %q: %v", e.Kind, e.EventType, e.Realm, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a delivery error, or 0 when err is not one.
func KindOf(err error) ErrorKind {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
