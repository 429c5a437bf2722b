package listener

// Event type labels attached to every delivery.
const (
	UserEventType  = "USER_EVENT"
	AdminEventType = "ADMIN_EVENT"
)

// Event represents an end-user event raised by the identity provider
// (login, logout, register, ...).
type Event struct {
	// ID is the host-assigned event id, if any.
	ID string `json:"id,omitempty"`
	// Time is the event time in milliseconds since the epoch.
	Time int64 `json:"time"`
	// Type is the host's event type (e.g., "LOGIN", "LOGOUT").
	Type string `json:"type"`
	// RealmID identifies the realm the event belongs to.
	RealmID   string `json:"realmId"`
	ClientID  string `json:"clientId"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	IPAddress string `json:"ipAddress"`
	// Error is set for failed operations (e.g., "invalid_user_credentials").
	Error string `json:"error,omitempty"`
	// Details holds free-form key/value pairs attached by the host.
	Details map[string]string `json:"details,omitempty"`
}

// AuthDetails describes who performed an admin operation.
type AuthDetails struct {
	RealmID   string `json:"realmId"`
	ClientID  string `json:"clientId"`
	UserID    string `json:"userId"`
	IPAddress string `json:"ipAddress"`
}

// AdminEvent represents an administrative change made in a realm.
type AdminEvent struct {
	ID            string      `json:"id,omitempty"`
	Time          int64       `json:"time"`
	RealmID       string      `json:"realmId"`
	AuthDetails   AuthDetails `json:"authDetails"`
	OperationType string      `json:"operationType"`
	ResourceType  string      `json:"resourceType"`
	ResourcePath  string      `json:"resourcePath"`
	// Representation is the JSON representation of the changed resource,
	// only populated by the host when representations are enabled.
	Representation string            `json:"representation,omitempty"`
	Error          string            `json:"error,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
}
