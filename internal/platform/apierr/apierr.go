package apierr

import (
	stderrors "errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/brightfold/content-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps service sentinel errors onto HTTP status codes. Unknown
// errors become a 500.
func FromError(err error) *Error {
	switch {
	case stderrors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case stderrors.Is(err, pkgerrors.ErrAccessDenied):
		return New(http.StatusForbidden, "access_denied", err)
	case stderrors.Is(err, pkgerrors.ErrInvalidState):
		return New(http.StatusConflict, "invalid_state", err)
	case stderrors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
