package internal

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the host process configuration.
type AppConfig struct {
	// Server holds event ingress server configuration.
	Server struct {
		Port           int    `yaml:"port"`
		ReadTimeoutMS  int64  `yaml:"read_timeout_ms"`
		WriteTimeoutMS int64  `yaml:"write_timeout_ms"`
		IdleTimeoutMS  int64  `yaml:"idle_timeout_ms"`
		ReadHeaderMS   int64  `yaml:"read_header_timeout_ms"`
		MaxBodyBytes   int64  `yaml:"max_body_bytes"`
		RateLimitRPS   int64  `yaml:"rate_limit_rps"`
		RateLimitBurst int64  `yaml:"rate_limit_burst"`
		MetricsEnabled bool   `yaml:"metrics_enabled"`
		MetricsPath    string `yaml:"metrics_path"`
	} `yaml:"server"`
	// Log holds logger configuration.
	Log LogConfig `yaml:"log"`
	// Webhook holds outbound delivery configuration.
	Webhook WebhookConfig `yaml:"webhook"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// WebhookConfig configures the shared webhook client.
type WebhookConfig struct {
	// ClientTimeoutMS bounds each POST. Zero means no timeout.
	ClientTimeoutMS int64 `yaml:"client_timeout_ms"`
	// Overrides maps WEBHOOK_* variable names to values consulted before
	// the process environment.
	Overrides map[string]string `yaml:"overrides"`
}

// LoadConfig loads the host configuration from a YAML file.
// It expands environment variables and applies default values. An empty
// path yields the defaults.
func LoadConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return cfg, err
		}
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutMS == 0 {
		cfg.Server.ReadTimeoutMS = 5000
	}
	if cfg.Server.WriteTimeoutMS == 0 {
		cfg.Server.WriteTimeoutMS = 10000
	}
	if cfg.Server.IdleTimeoutMS == 0 {
		cfg.Server.IdleTimeoutMS = 60000
	}
	if cfg.Server.ReadHeaderMS == 0 {
		cfg.Server.ReadHeaderMS = 5000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Webhook.ClientTimeoutMS < 0 {
		cfg.Webhook.ClientTimeoutMS = 0
	}
	overrides := make(map[string]string, len(cfg.Webhook.Overrides))
	for key, value := range cfg.Webhook.Overrides {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		overrides[key] = value
	}
	cfg.Webhook.Overrides = overrides
}
