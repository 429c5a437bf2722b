package listener

import (
	"os"
	"strings"
)

// Variable name prefixes, completed with the normalized realm name.
const (
	URLPrefix           = "WEBHOOK_URL_"
	AuthMethodPrefix    = "WEBHOOK_AUTH_METHOD_"
	BasicUsernamePrefix = "WEBHOOK_BASIC_AUTH_USERNAME_"
	BasicPasswordPrefix = "WEBHOOK_BASIC_AUTH_PASSWORD_"
	FilterPrefix        = "WEBHOOK_FILTER_"
)

// ConfigProvider looks up per-realm webhook settings by variable name.
type ConfigProvider interface {
	Lookup(key string) (string, bool)
}

// EnvProvider reads settings from the process environment.
type EnvProvider struct{}

// Lookup returns the environment variable named key.
func (EnvProvider) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapProvider serves settings from a static map.
type MapProvider map[string]string

// Lookup returns the value stored under key.
func (m MapProvider) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// ChainProvider consults each provider in order and returns the first hit.
type ChainProvider []ConfigProvider

// Lookup returns the first value found for key.
func (c ChainProvider) Lookup(key string) (string, bool) {
	for _, provider := range c {
		if provider == nil {
			continue
		}
		if value, ok := provider.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// Destination is the resolved webhook target for one realm.
type Destination struct {
	Realm      string
	URL        string
	AuthMethod string
	Username   string
	Password   string
	Filter     string

	hasAuthMethod bool
	hasUsername   bool
	hasPassword   bool
}

// VariableName builds the lookup key for realm: the realm is upper-cased,
// hyphens become underscores and prefix is prepended.
func VariableName(prefix, realm string) string {
	return prefix + strings.ReplaceAll(strings.ToUpper(realm), "-", "_")
}

// Resolver reads Destination values from a ConfigProvider. Nothing is
// cached; every call goes back to the provider.
type Resolver struct {
	config ConfigProvider
}

// NewResolver returns a Resolver backed by config, or the process
// environment when config is nil.
func NewResolver(config ConfigProvider) *Resolver {
	if config == nil {
		config = EnvProvider{}
	}
	return &Resolver{config: config}
}

// Resolve returns the destination for realm. A missing URL variable is
// reported as ErrMissingURL; every other variable is optional.
func (r *Resolver) Resolve(realm string) (Destination, error) {
	dest := Destination{Realm: realm}
	if realm == "" {
		return dest, ErrMissingURL
	}

	url, ok := r.config.Lookup(VariableName(URLPrefix, realm))
	if !ok || strings.TrimSpace(url) == "" {
		return dest, ErrMissingURL
	}
	dest.URL = strings.TrimSpace(url)

	dest.AuthMethod, dest.hasAuthMethod = r.config.Lookup(VariableName(AuthMethodPrefix, realm))
	dest.Username, dest.hasUsername = r.config.Lookup(VariableName(BasicUsernamePrefix, realm))
	dest.Password, dest.hasPassword = r.config.Lookup(VariableName(BasicPasswordPrefix, realm))
	dest.Filter, _ = r.config.Lookup(VariableName(FilterPrefix, realm))
	dest.Filter = strings.TrimSpace(dest.Filter)
	return dest, nil
}

// Basic reports whether the destination asks for basic authentication.
func (d Destination) Basic() bool {
	return strings.EqualFold(strings.TrimSpace(d.AuthMethod), "basic")
}

// HasCredentials reports whether both basic credentials are present.
func (d Destination) HasCredentials() bool {
	return d.hasUsername && d.hasPassword
}

// HasAuthMethod reports whether an auth method variable was set.
func (d Destination) HasAuthMethod() bool {
	return d.hasAuthMethod
}

// missingCredentials lists the basic credential variables that were not set.
func (d Destination) missingCredentials() []string {
	var out []string
	if !d.hasUsername {
		out = append(out, VariableName(BasicUsernamePrefix, d.Realm))
	}
	if !d.hasPassword {
		out = append(out, VariableName(BasicPasswordPrefix, d.Realm))
	}
	return out
}
