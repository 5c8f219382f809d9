package action

import (
	"errors"
	"strings"

	"github.com/pders01/rdash/internal/api"
	"github.com/pders01/rdash/internal/reconcile"
)

var (
	// ErrNotConfirmed is returned for a delete the user has not confirmed.
	ErrNotConfirmed = errors.New("deletion not confirmed")
	// ErrBusy is returned while a request of the same kind is in flight.
	ErrBusy = errors.New("request already in progress")
)

// ValidationError is a local precondition failure. No request was sent.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// Outcome is the result of one submitted action. On success Event is the
// reconciler follow-up.
type Outcome struct {
	Kind  Kind
	Err   error
	Event reconcile.Event
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message is the human-readable error for a failed outcome: the server's
// error text when it sent one, otherwise a fixed per-action message.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(o.Err, &verr) {
		return capitalize(verr.Error())
	}
	if errors.Is(o.Err, ErrNotConfirmed) || errors.Is(o.Err, ErrBusy) {
		return capitalize(o.Err.Error())
	}

	var apiErr *api.Error
	if errors.As(o.Err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return o.Kind.fallback()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
