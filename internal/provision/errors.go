package provision

import (
	"errors"
	"fmt"
)

// ErrRejected is matched by every error returned from Directive.Run.
var ErrRejected = errors.New("principal creation rejected")

// Reason describes why a session rejected the request. It is informational only.
type Reason string

const (
	ReasonUnknown      Reason = "unknown"
	ReasonDuplicate    Reason = "duplicate"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonInvalid      Reason = "invalid"
)

// Classifier is implemented by admin errors that know why the request was rejected.
type Classifier interface {
	Reason() Reason
}

// RejectedError wraps the error an Admin returned for a createUser request.
type RejectedError struct {
	User     string
	Database string
	Cause    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("principal creation rejected for user %q on database %q: %v", e.User, e.Database, e.Cause)
}

func (e *RejectedError) Unwrap() error { return e.Cause }

// Is reports ErrRejected as a match so callers need not know the concrete type.
func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// Reason returns the classification of the cause, or ReasonUnknown.
func (e *RejectedError) Reason() Reason {
	var c Classifier
	if errors.As(e.Cause, &c) {
		return c.Reason()
	}
	return ReasonUnknown
}

// ReasonOf returns the rejection reason carried by err, or ReasonUnknown.
func ReasonOf(err error) Reason {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason()
	}
	var c Classifier
	if errors.As(err, &c) {
		return c.Reason()
	}
	return ReasonUnknown
}
