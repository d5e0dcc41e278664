package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrTransport marks failures where no usable response came back:
	// the request failed, the breaker is open or the body did not parse.
	ErrTransport = errors.New("transport failure")
	ErrBusy      = errors.New("request already in flight")
	ErrStale     = errors.New("stale response discarded")
	ErrCancelled = errors.New("cancelled by user")
	ErrNoModal   = errors.New("modal is not open")
)

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// ValidationError is a client-side check that blocked a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.op, ErrTransport, e.err)
}

func (e *transportError) Is(target error) bool { return target == ErrTransport }

func (e *transportError) Unwrap() error { return e.err }

// Transport wraps err as a transport failure of op; the cause stays reachable.
func Transport(err error, op string) error {
	return &transportError{op: op, err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage picks what the notifier shows: the server's {message}
// for API errors, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}
