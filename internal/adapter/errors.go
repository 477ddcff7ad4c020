package adapter

import (
	"errors"
	"fmt"
)

// Kind classifies a transport failure. Classification happens exactly once,
// at the adapter boundary; downstream layers branch on the Kind (and status
// code) without ever re-inspecting the underlying error.
type Kind string

const (
	// KindNetwork means the request never produced an HTTP response
	// (DNS failure, connection refused, broken pipe).
	KindNetwork Kind = "network"
	// KindTimeout means the configured per-request deadline elapsed.
	KindTimeout Kind = "timeout"
	// KindAuth covers 401 and 403 responses.
	KindAuth Kind = "auth"
	// KindValidation covers 400 responses.
	KindValidation Kind = "validation"
	// KindServer covers 5xx responses.
	KindServer Kind = "server"
	// KindUnknown covers everything else, including JSON parse failures on
	// non-OK responses and unexpected status codes.
	KindUnknown Kind = "unknown"
)

// Error is the transport error carried out of the adapter. StatusCode is zero
// when no HTTP response was received.
type Error struct {
	Kind       Kind
	StatusCode int
	Op         string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (http %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the transport Kind of err, or KindUnknown when err did not
// originate in this package.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status code carried by err, or zero if none.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// IsTransport reports whether err carries a transport classification.
func IsTransport(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
