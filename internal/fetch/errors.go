package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/joshuadavidthomas/liment/internal/httpclient"
)

// Error carries a failure Reason through ordinary error returns so providers
// can use plain Go error flow and convert at the Fetch boundary.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted cause. %w is honored.
func Errorf(reason Reason, format string, a ...any) error {
	return &Error{Reason: reason, Err: fmt.Errorf(format, a...)}
}

// Wrap attaches reason to err. A nil err stays nil.
func Wrap(reason Reason, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Reason: reason, Err: err}
}

// ReasonOf extracts the classification from err. Unclassified errors are
// treated as transport failures, since that is what an unexpected error from
// the network stack almost always is.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return TransportError
}

// FromError converts an error into a failed Outcome.
func FromError(err error) Outcome {
	return Failure(ReasonOf(err), err)
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// CheckResponse validates an HTTP response from a usage API. It returns nil
// when the response is OK for further processing. Only 401 is AuthExpired;
// callers that retry on 401 check the status first. A 403 means the token
// was accepted but lacks access, so it is a ServerError like any other
// non-2xx status.
func CheckResponse(resp *httpclient.Response, name string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Errorf(AuthExpired, "%s rejected credentials: HTTP %d", name, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Errorf(ServerError, "%s request failed: HTTP %d (%s)",
			name, resp.StatusCode, httpclient.SummarizeBody(resp.Body))
	case resp.JSONErr != nil:
		return Errorf(MalformedResponse, "invalid response from %s: %w", name, resp.JSONErr)
	}
	return nil
}
