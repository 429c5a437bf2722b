package listener

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// ContentTypeJSON is the content type of every webhook body.
const ContentTypeJSON = "application/json"

// NewRequest builds the webhook POST for dest carrying body. Basic
// authentication is applied only when the auth method is "basic" (any case)
// and both credentials are set; otherwise the request goes out
// unauthenticated and a warning explains why.
func NewRequest(ctx context.Context, dest Destination, body []byte, logger zerolog.Logger) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", ContentTypeJSON)

	switch {
	case !dest.HasAuthMethod():
		logger.Warn().
			Str("realm", dest.Realm).
			Str("variable", VariableName(AuthMethodPrefix, dest.Realm)).
			Msg("Webhook auth method not set, sending without authentication")
	case dest.Basic() && !dest.HasCredentials():
		logger.Warn().
			Str("realm", dest.Realm).
			Strs("missing", dest.missingCredentials()).
			Msg("Basic auth credentials missing, sending without authentication")
	case dest.Basic():
		req.SetBasicAuth(dest.Username, dest.Password)
	}
	return req, nil
}
