package simplify

import (
	"errors"
	"fmt"
)

// Kind classifies a failed simplification.
type Kind string

const (
	KindAuth      Kind = "auth"      // missing or malformed credential, 401
	KindTransport Kind = "transport" // request could not be built or sent
	KindProvider  Kind = "provider"  // non-success status
	KindProtocol  Kind = "protocol"  // response lacks a completion
)

// Sentinels for errors.Is.
var (
	ErrAuth      = &Error{Kind: KindAuth}
	ErrTransport = &Error{Kind: KindTransport}
	ErrProvider  = &Error{Kind: KindProvider}
	ErrProtocol  = &Error{Kind: KindProtocol}
)

// Error is returned by Client.Simplify for every failure.
type Error struct {
	Kind       Kind
	StatusCode int // set for provider errors and 401s
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error (status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
