package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"realmhooks/ingress"
	"realmhooks/internal"
	"realmhooks/pkg/listener"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		bootLogger := internal.NewLogger("server", internal.LogConfig{})
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := internal.NewLogger("server", config.Log)

	factory, err := newFactory(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("listener factory")
	}
	factory.Init(listener.EnvProvider{})
	factory.PostInit()
	defer func() {
		if err := factory.Close(); err != nil {
			logger.Error().Err(err).Msg("close factory")
		}
	}()

	handler := newRouter(config, factory, logger)

	addr := ":" + strconv.Itoa(config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(config.Server.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:      time.Duration(config.Server.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:       time.Duration(config.Server.IdleTimeoutMS) * time.Millisecond,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderMS) * time.Millisecond,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", addr).Str("provider", factory.ID()).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

// newFactory builds the listener factory: config overrides win over the
// process environment, and every delivery feeds the prometheus hooks.
func newFactory(config internal.AppConfig) (*listener.Factory, error) {
	client := &http.Client{}
	if config.Webhook.ClientTimeoutMS > 0 {
		client.Timeout = time.Duration(config.Webhook.ClientTimeoutMS) * time.Millisecond
	}

	return listener.NewFactory(
		listener.WithConfigProvider(listener.ChainProvider{
			listener.MapProvider(config.Webhook.Overrides),
			listener.EnvProvider{},
		}),
		listener.WithHTTPClient(client),
		listener.WithLogger(internal.NewLogger("listener", config.Log)),
		listener.WithHooks(internal.MetricsHooks()),
	)
}

func newRouter(config internal.AppConfig, factory listener.ProviderFactory, logger zerolog.Logger) http.Handler {
	router := ingress.NewHandler(factory, logger, config.Server.MaxBodyBytes).Routes()
	if config.Server.MetricsEnabled {
		router.Handle(config.Server.MetricsPath, promhttp.Handler())
		logger.Info().Str("path", config.Server.MetricsPath).Msg("metrics enabled")
	}

	return internal.NewRateLimitHandler(
		router,
		config.Server.RateLimitRPS,
		config.Server.RateLimitBurst,
		10*time.Minute,
	)
}
