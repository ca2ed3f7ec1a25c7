package users

import "errors"

var (
	// ErrEmailTaken is returned when registration hits an existing email
	ErrEmailTaken = errors.New("email is already registered")

	// ErrUserNotFound is returned when the user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login. The message never
	// distinguishes a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAHelper is returned when a helper-only operation targets a
	// customer account
	ErrNotAHelper = errors.New("user is not a helper")
)
