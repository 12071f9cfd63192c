// Package apierr classifies failures of remote and local operations into a small
// taxonomy the UI can act on.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	Unknown Kind = iota
	Network
	Auth
	NotFound
	Parse
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Auth:
		return "auth"
	case NotFound:
		return "not found"
	case Parse:
		return "parse"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is a classified failure of a single operation.
type Error struct {
	Kind   Kind
	Op     string // Operation name, e.g. "search photos"
	Status int    // HTTP status, 0 if the request never completed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (HTTP %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with an explicit kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// FromStatus builds an error for a non-2xx HTTP response.
func FromStatus(op string, status int, body string) *Error {
	kind := Unknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = Auth
	case status == http.StatusNotFound:
		kind = NotFound
	case status == http.StatusTooManyRequests || status >= 500:
		kind = Network
	}
	if body == "" {
		body = http.StatusText(status)
	}
	return &Error{Kind: kind, Op: op, Status: status, Err: errors.New(body)}
}

// Wrap classifies err and wraps it with op. A nil err returns nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: Classify(err), Op: op, Err: err}
}

// Classify returns the kind of err.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return Parse
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Network
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}
	return Unknown
}

// IsCancelled reports whether err is a cancellation, which is never shown to the user.
func IsCancelled(err error) bool {
	return Classify(err) == Cancelled
}

// Retryable reports whether the operation may succeed if simply retried.
func Retryable(err error) bool {
	switch Classify(err) {
	case Network, Unknown:
		return true
	}
	return false
}
