package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor is authenticated but does not own the resource.
	ErrForbidden = errors.New("not authorized to perform requested action")
	// ErrUnauthorized indicates the request carries no usable identity.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrConflict indicates the operation collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserNotFound is returned when a token refers to a user that no longer exists.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrUnauthorized)
)
