package listener

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	wmhttp "github.com/ThreeDotsLabs/watermill-http/v2/pkg/http"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// Receipt describes a delivery attempt that reached the transport.
type Receipt struct {
	MessageID string
	URL       string
	// Status is the HTTP status code returned by the destination. It is
	// recorded but never inspected: a non-2xx answer is still a delivery.
	Status        int
	StatusLine    string
	Authenticated bool
	// Filtered is set when the realm filter rejected the event and no
	// request was made.
	Filtered bool
}

type exchangeKey struct{}

// exchange travels with a message through the publisher so the request
// builder and the round tripper can see the destination and record the
// response.
type exchange struct {
	dest          Destination
	logger        zerolog.Logger
	status        int
	statusLine    string
	authenticated bool
}

// Transport posts serialized events over a watermill-http publisher. The
// destination URL is used as the topic.
type Transport struct {
	publisher *wmhttp.Publisher
	logger    zerolog.Logger
}

// NewTransport returns a Transport that sends through client. The client's
// connection pool is shared by every delivery; no timeout is added.
func NewTransport(client *http.Client, logger zerolog.Logger) (*Transport, error) {
	if client == nil {
		client = &http.Client{}
	}
	observed := *client
	observed.Transport = &statusRecorder{next: client.Transport}

	pub, err := wmhttp.NewPublisher(wmhttp.PublisherConfig{
		MarshalMessageFunc: marshalWebhookMessage,
		Client:             &observed,
	}, NewWatermillLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Transport{publisher: pub, logger: logger}, nil
}

// Send makes exactly one POST of payload to dest.
func (t *Transport) Send(ctx context.Context, dest Destination, eventType string, payload []byte) (Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", eventType)
	msg.Metadata.Set("realm", dest.Realm)

	ex := &exchange{dest: dest, logger: t.logger}
	msg.SetContext(context.WithValue(ctx, exchangeKey{}, ex))

	t.logger.Info().
		Str("event_type", eventType).
		Str("realm", dest.Realm).
		Str("message_id", msg.UUID).
		Msg("Sending webhook")

	err := t.publisher.Publish(dest.URL, msg)
	receipt := Receipt{
		MessageID:     msg.UUID,
		URL:           dest.URL,
		Status:        ex.status,
		StatusLine:    ex.statusLine,
		Authenticated: ex.authenticated,
	}
	// The publisher reports >= 400 answers as errors; the destination was
	// reached, so those count as delivered.
	if err != nil && ex.status < http.StatusBadRequest {
		return receipt, err
	}
	return receipt, nil
}

// Close shuts the publisher down.
func (t *Transport) Close() error {
	return t.publisher.Close()
}

func marshalWebhookMessage(topic string, msg *message.Message) (*http.Request, error) {
	ex, ok := msg.Context().Value(exchangeKey{}).(*exchange)
	if !ok {
		return nil, errors.New("message carries no webhook destination")
	}
	dest := ex.dest
	if topic != "" {
		dest.URL = topic
	}
	req, err := NewRequest(msg.Context(), dest, msg.Payload, ex.logger)
	if err != nil {
		return nil, err
	}
	ex.authenticated = req.Header.Get("Authorization") != ""
	return req, nil
}

// statusRecorder stores the response status on the request's exchange.
type statusRecorder struct {
	next http.RoundTripper
}

func (s *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	next := s.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if ex, ok := req.Context().Value(exchangeKey{}).(*exchange); ok {
		ex.status = resp.StatusCode
		ex.statusLine = resp.Status
	}
	return resp, nil
}
