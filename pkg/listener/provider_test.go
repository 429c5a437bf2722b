package listener

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func newTestFactory(t *testing.T, config ConfigProvider, client *http.Client) (*Factory, *logSink) {
	t.Helper()
	logger, sink := newTestLogger()
	factory, err := NewFactory(WithConfigProvider(config), WithHTTPClient(client), WithLogger(logger))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	t.Cleanup(func() { _ = factory.Close() })
	return factory, sink
}

// TestProviderOnEventWithBasicAuth tests that a user event reaches the realm's webhook with credentials.
func TestProviderOnEventWithBasicAuth(t *testing.T) {
	captured := &capturedRequest{}
	factory, _ := newTestFactory(t, basicAuthConfig(), captured.client())

	provider := factory.Create(RealmSession("test"))
	provider.OnEvent(context.Background(), Event{Type: "LOGIN"})

	if captured.Calls != 1 || captured.URL != "http://example.com/webhook" {
		t.Fatalf("expected one POST to the realm url, got %d to %q", captured.Calls, captured.URL)
	}
	if captured.Header.Get("Authorization") == "" {
		t.Fatalf("expected authorization header")
	}
}

// TestProviderOnAdminEventIgnoresRepresentationFlag tests that the flag does not change the request.
func TestProviderOnAdminEventIgnoresRepresentationFlag(t *testing.T) {
	bodies := make([]string, 0, 2)
	captured := &capturedRequest{}
	factory, _ := newTestFactory(t, basicAuthConfig(), captured.client())
	provider := factory.Create(RealmSession("test"))

	event := AdminEvent{OperationType: "CREATE", ResourceType: "CLIENT", Representation: `{"clientId":"app"}`}
	for _, include := range []bool{true, false} {
		provider.OnAdminEvent(context.Background(), event, include)
		bodies = append(bodies, string(captured.Body))
	}
	if captured.Calls != 2 {
		t.Fatalf("expected two requests, got %d", captured.Calls)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("expected identical bodies, got %q and %q", bodies[0], bodies[1])
	}
	if !strings.Contains(bodies[0], `"representation"`) {
		t.Fatalf("expected representation to be serialized, got %s", bodies[0])
	}
}

// TestProviderTransportFailureIsLogged tests that a failed POST is logged and does not escape the callback.
func TestProviderTransportFailureIsLogged(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("simulated io failure")
	})}
	factory, sink := newTestFactory(t, MapProvider{
		"WEBHOOK_URL_TEST":         "http://example.com/webhook",
		"WEBHOOK_AUTH_METHOD_TEST": "none",
	}, client)

	factory.Create(RealmSession("test")).OnEvent(context.Background(), Event{Type: "LOGIN"})

	entry := sink.find(t, "error", "Error while sending webhook")
	if entry == nil {
		t.Fatalf("expected error log")
	}
	if entry["event_type"] != UserEventType || entry["kind"] != "transport" {
		t.Fatalf("unexpected log fields %v", entry)
	}
}

// TestProviderMissingURLIsLogged tests that a realm without a URL logs an error and sends nothing.
func TestProviderMissingURLIsLogged(t *testing.T) {
	captured := &capturedRequest{}
	factory, sink := newTestFactory(t, MapProvider{}, captured.client())

	factory.Create(RealmSession("my-realm")).OnAdminEvent(context.Background(), AdminEvent{}, false)

	if captured.Calls != 0 {
		t.Fatalf("expected no request, got %d", captured.Calls)
	}
	entry := sink.find(t, "error", "Error while sending webhook")
	if entry == nil {
		t.Fatalf("expected error log")
	}
	if !strings.Contains(entry["error"].(string), "WEBHOOK_URL_MY_REALM") {
		t.Fatalf("expected error to name the variable, got %v", entry["error"])
	}
}

// TestProviderBasicWithoutCredentialsWarns tests the degraded unauthenticated send.
func TestProviderBasicWithoutCredentialsWarns(t *testing.T) {
	captured := &capturedRequest{}
	factory, sink := newTestFactory(t, MapProvider{
		"WEBHOOK_URL_TEST":         "http://example.com/webhook",
		"WEBHOOK_AUTH_METHOD_TEST": "basic",
	}, captured.client())

	factory.Create(RealmSession("test")).OnEvent(context.Background(), Event{})

	if captured.Calls != 1 {
		t.Fatalf("expected one request, got %d", captured.Calls)
	}
	if captured.Header.Get("Authorization") != "" {
		t.Fatalf("expected no authorization header")
	}
	if sink.find(t, "warn", "credentials missing") == nil {
		t.Fatalf("expected credentials warning")
	}
}

type panickingSession struct{}

func (panickingSession) RealmName() string { panic("session gone") }

// TestProviderRecoversPanics tests that nothing escapes the host callback.
func TestProviderRecoversPanics(t *testing.T) {
	factory, sink := newTestFactory(t, MapProvider{}, (&capturedRequest{}).client())

	factory.Create(panickingSession{}).OnEvent(context.Background(), Event{})

	if sink.find(t, "error", "Error while sending webhook") == nil {
		t.Fatalf("expected panic to be logged")
	}
}

// TestFactoryLifecycle tests the factory id and lifecycle logging.
func TestFactoryLifecycle(t *testing.T) {
	logger, sink := newTestLogger()
	factory, err := NewFactory(WithConfigProvider(MapProvider{}), WithLogger(logger))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	if factory.ID() != "webhook-event-listener" {
		t.Fatalf("unexpected id %q", factory.ID())
	}

	factory.Init(MapProvider{})
	factory.PostInit()
	factory.Create(RealmSession("test")).Close()
	if err := factory.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, msg := range []string{"Initializing", "Post-initializing", "Closing webhook event listener provider", "Closing webhook event listener factory"} {
		if sink.find(t, "info", msg) == nil {
			t.Fatalf("expected %q log", msg)
		}
	}
}

// TestNopLifecycle tests the documented no-op defaults.
func TestNopLifecycle(t *testing.T) {
	var lc Lifecycle = NopLifecycle{}
	lc.Init(nil)
	lc.PostInit()
	if err := lc.Close(); err != nil {
		t.Fatalf("expected nil close error, got %v", err)
	}
}

// TestFactoryDispatcherReturnsResults tests that the shared dispatcher reports what listeners only log.
func TestFactoryDispatcherReturnsResults(t *testing.T) {
	captured := &capturedRequest{respond: http.StatusUnauthorized}
	factory, _ := newTestFactory(t, basicAuthConfig(), captured.client())

	receipt, err := factory.Dispatcher().Deliver(context.Background(), "test", UserEventType, Event{Type: "LOGIN"})
	if err != nil {
		t.Fatalf("expected 401 to count as delivered, got %v", err)
	}
	if receipt.Status != http.StatusUnauthorized || !receipt.Authenticated {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	_, err = factory.Dispatcher().Deliver(context.Background(), "unknown", UserEventType, Event{Type: "LOGIN"})
	if KindOf(err) != KindMissingURL || !errors.Is(err, ErrMissingURL) {
		t.Fatalf("expected missing url error, got %v", err)
	}
	if captured.Calls != 1 {
		t.Fatalf("expected one request, got %d", captured.Calls)
	}
}
