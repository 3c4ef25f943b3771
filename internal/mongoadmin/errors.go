package mongoadmin

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

// Server error codes used for classification.
const (
	codeBadValue             = 2
	codeFailedToParse        = 9
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeInvalidNamespace     = 73
	codeDuplicateKey         = 11000
	codeUserAlreadyExists    = 51003
)

// Error is a failed administrative command.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reason maps the server error code onto a rejection reason.
func (e *Error) Reason() provision.Reason {
	var se mongo.ServerError
	if !errors.As(e.Err, &se) {
		return provision.ReasonUnknown
	}
	switch {
	case se.HasErrorCode(codeUserAlreadyExists), se.HasErrorCode(codeDuplicateKey):
		return provision.ReasonDuplicate
	case se.HasErrorCode(codeUnauthorized), se.HasErrorCode(codeAuthenticationFailed):
		return provision.ReasonUnauthorized
	case se.HasErrorCode(codeBadValue), se.HasErrorCode(codeFailedToParse), se.HasErrorCode(codeInvalidNamespace):
		return provision.ReasonInvalid
	default:
		return provision.ReasonUnknown
	}
}
