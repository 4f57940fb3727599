// Package corerr defines the error kinds the core raises or surfaces, per
// the error handling design: ConfigError, ProtectedPath, NotFound,
// PermissionDenied and HashIOError. Each kind is a sentinel wrapped with
// github.com/pkg/errors so callers can both match on the kind (errors.Is)
// and retain the underlying cause and path context.
package corerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the error kinds from the error handling design.
type Kind int

// The error kinds raised or surfaced by the core.
const (
	KindConfigError Kind = iota
	KindProtectedPath
	KindNotFound
	KindPermissionDenied
	KindHashIOError
)

func (k Kind) String() string {
	switch k {
	case KindConfigError:
		return "ConfigError"
	case KindProtectedPath:
		return "ProtectedPath"
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindHashIOError:
		return "HashIOError"
	default:
		return "UnknownError"
	}
}

// Error carries a Kind alongside the path it concerns and the wrapped
// cause, if any.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind with a message, optionally
// wrapping an underlying cause.
func New(kind Kind, path, msg string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg, Err: cause}
}

// Wrap is a convenience constructor mirroring errors.Wrap, binding a kind
// and path to an existing error.
func Wrap(kind Kind, path string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Path: path, Msg: cause.Error(), Err: errors.WithStack(cause)}
}

// Is reports whether err (or any error it wraps) is a corerr.Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.Kind == kind
}
