package errors

import "errors"

var (
	// ErrNotFound is returned for unresolvable content, versions and
	// unknown package ids. Never retried internally.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied is returned when the caller's tenant does not own
	// the resource and the resource is not globally shared.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidState is returned when an operation is not valid for the
	// current lifecycle state, e.g. a manifest read on a non-ready package.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
