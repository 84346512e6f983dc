package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrStoreUnavailable is matched by every gateway failure.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Kind classifies a gateway failure for logging and metrics.
type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindTimeout     Kind = "timeout"
	KindCanceled    Kind = "canceled"
)

// Error is a gateway failure with the operation and collection it hit.
type Error struct {
	Op         string
	Collection string
	Kind       Kind
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %s: %v", e.Op, e.Collection, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports every *Error as ErrStoreUnavailable.
func (e *Error) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// wrap converts a backend error into an *Error. Errors already wrapped are
// returned unchanged.
func wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Op: op, Collection: collection, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindUnavailable
	}
}

// KindOf returns the kind of a gateway failure, or "" for other errors.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return ""
}
