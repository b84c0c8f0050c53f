package services

import (
	"errors"
	"fmt"
)

var (
	ErrAccountExists   = errors.New("a user with that phone number already exists")
	ErrAccountNotFound = errors.New("the specified user does not exist")
	ErrLoginFailed     = errors.New("could not find the specified user, or the password did not match")
	ErrTokenNotFound   = errors.New("the specified token does not exist")
	ErrTokenExpired    = errors.New("the token has already expired, and cannot be extended")
	ErrCheckNotFound   = errors.New("the specified check id does not exist")
	ErrUnauthorized    = errors.New("missing required token in header, or token is invalid")
	ErrForbidden       = errors.New("could not read the account that owns the token")
)

// QuotaError is returned when an account is already at its check limit.
type QuotaError struct {
	Max int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("the user already has the maximum number of checks (%d)", e.Max)
}

// PartialFailureError reports a multi-step cascade that completed some but
// not all of its steps. The completed steps are not rolled back.
type PartialFailureError struct {
	Message string
	Err     error
}

func (e *PartialFailureError) Error() string {
	return e.Message
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
