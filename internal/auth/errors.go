package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password,
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrPasswordMismatch   = errors.New("password and password confirmation do not match")
)
