package listener

import "github.com/rs/zerolog"

// ProviderID identifies the listener to the host runtime.
const ProviderID = "webhook-event-listener"

// Lifecycle holds the host's factory lifecycle callbacks.
type Lifecycle interface {
	// Init is called once with the factory's configuration scope.
	Init(scope ConfigProvider)
	// PostInit is called after every factory has been initialized.
	PostInit()
	// Close is called when the host shuts down.
	Close() error
}

// NopLifecycle implements Lifecycle with no-ops. Embed it to get the
// defaults.
type NopLifecycle struct{}

func (NopLifecycle) Init(ConfigProvider) {}
func (NopLifecycle) PostInit()           {}
func (NopLifecycle) Close() error        { return nil }

// ProviderFactory creates a listener per host session.
type ProviderFactory interface {
	Lifecycle
	ID() string
	Create(session Session) EventListener
}

// Factory is the webhook ProviderFactory. It owns the dispatcher, and with
// it the HTTP client shared by every provider it creates.
type Factory struct {
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

var _ ProviderFactory = (*Factory)(nil)

// NewFactory builds a Factory; opts configure the shared dispatcher.
func NewFactory(opts ...Option) (*Factory, error) {
	dispatcher, err := NewDispatcher(opts...)
	if err != nil {
		return nil, err
	}
	return &Factory{dispatcher: dispatcher, logger: dispatcher.logger}, nil
}

// ID returns ProviderID.
func (f *Factory) ID() string {
	return ProviderID
}

// Create returns a provider bound to session.
func (f *Factory) Create(session Session) EventListener {
	f.logger.Debug().Msg("Creating webhook event listener provider")
	return NewProvider(session, f.dispatcher)
}

// Init logs only.
func (f *Factory) Init(scope ConfigProvider) {
	f.logger.Info().Msg("Initializing webhook event listener factory")
}

// PostInit logs only.
func (f *Factory) PostInit() {
	f.logger.Info().Msg("Post-initializing webhook event listener factory")
}

// Close releases the shared transport.
func (f *Factory) Close() error {
	f.logger.Info().Msg("Closing webhook event listener factory")
	return f.dispatcher.Close()
}

// Dispatcher exposes the shared dispatcher to composing layers that want
// delivery results instead of log-and-drop.
func (f *Factory) Dispatcher() *Dispatcher {
	return f.dispatcher
}
