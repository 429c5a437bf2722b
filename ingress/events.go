package ingress

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"realmhooks/pkg/listener"
)

// Handler plays the identity provider's event source: every request opens
// a session for the realm in the path and hands the decoded event to a
// fresh listener from the factory.
type Handler struct {
	factory  listener.ProviderFactory
	logger   zerolog.Logger
	maxBytes int64
}

// NewHandler returns a Handler; maxBytes caps request bodies when positive.
func NewHandler(factory listener.ProviderFactory, logger zerolog.Logger, maxBytes int64) *Handler {
	return &Handler{factory: factory, logger: logger, maxBytes: maxBytes}
}

// Routes mounts the ingress endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/realms/{realm}", func(r chi.Router) {
		r.Post("/events", h.userEvent)
		r.Post("/admin-events", h.adminEvent)
	})
	return r
}

func (h *Handler) userEvent(w http.ResponseWriter, r *http.Request) {
	realm := chi.URLParam(r, "realm")
	var event listener.Event
	if !h.decode(w, r, realm, &event) {
		return
	}
	if event.RealmID == "" {
		event.RealmID = realm
	}
	if event.Time == 0 {
		event.Time = time.Now().UnixMilli()
	}

	provider := h.factory.Create(listener.RealmSession(realm))
	defer provider.Close()
	// Delivery outlives the event source's connection.
	provider.OnEvent(context.WithoutCancel(r.Context()), event)

	// Delivery outcome is not reported to the event source.
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) adminEvent(w http.ResponseWriter, r *http.Request) {
	realm := chi.URLParam(r, "realm")
	var event listener.AdminEvent
	if !h.decode(w, r, realm, &event) {
		return
	}
	if event.RealmID == "" {
		event.RealmID = realm
	}
	if event.Time == 0 {
		event.Time = time.Now().UnixMilli()
	}
	includeRepresentation, _ := strconv.ParseBool(r.URL.Query().Get("includeRepresentation"))

	provider := h.factory.Create(listener.RealmSession(realm))
	defer provider.Close()
	provider.OnAdminEvent(context.WithoutCancel(r.Context()), event, includeRepresentation)

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, realm string, into interface{}) bool {
	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := json.NewDecoder(body).Decode(into); err != nil {
		h.logger.Warn().Err(err).Str("realm", realm).Str("path", r.URL.Path).Msg("event decode failed")
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}
