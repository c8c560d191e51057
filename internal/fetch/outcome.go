package fetch

import (
	"github.com/joshuadavidthomas/liment/internal/models"
)

// Reason classifies why a fetch failed. Downstream code only ever sees the
// reason; the wrapped error is kept for logging.
type Reason int

const (
	ReasonNone Reason = iota
	AuthUnavailable
	AuthExpired
	TransportError
	ServerError
	MalformedResponse
	ConfigInvalid
)

var reasonNames = map[Reason]string{
	ReasonNone:        "none",
	AuthUnavailable:   "auth_unavailable",
	AuthExpired:       "auth_expired",
	TransportError:    "transport_error",
	ServerError:       "server_error",
	MalformedResponse: "malformed_response",
	ConfigInvalid:     "config_invalid",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// Message returns a short human-readable description for menus and tooltips.
func (r Reason) Message() string {
	switch r {
	case AuthUnavailable:
		return "Not signed in"
	case AuthExpired:
		return "Session expired, sign in again"
	case TransportError:
		return "Network unavailable"
	case ServerError:
		return "Usage service error"
	case MalformedResponse:
		return "Unexpected response from usage service"
	case ConfigInvalid:
		return "Invalid configuration"
	default:
		return "Usage unavailable"
	}
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome is the result of one provider fetch: a snapshot on success or a
// classified failure reason.
type Outcome struct {
	Snapshot *models.UsageSnapshot
	Reason   Reason
	Err      error
}

func Success(snapshot models.UsageSnapshot) Outcome {
	return Outcome{Snapshot: &snapshot}
}

func Failure(reason Reason, err error) Outcome {
	if reason == ReasonNone {
		reason = ServerError
	}
	return Outcome{Reason: reason, Err: err}
}

func (o Outcome) OK() bool {
	return o.Snapshot != nil && o.Reason == ReasonNone
}
