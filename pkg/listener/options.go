package listener

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option is a function that configures a Dispatcher.
type Option func(*Dispatcher)

// WithConfigProvider sets where per-realm webhook settings are read from.
// The process environment is used when no provider is given.
func WithConfigProvider(config ConfigProvider) Option {
	return func(d *Dispatcher) {
		if config != nil {
			d.config = config
		}
	}
}

// WithHTTPClient sets the client shared by every delivery.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.client = client
		}
	}
}

// WithLogger sets the logger for the dispatcher and the providers.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks adds delivery callbacks.
func WithHooks(hooks Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = append(d.hooks, hooks)
	}
}
