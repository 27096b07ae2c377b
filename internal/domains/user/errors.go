package user

import "errors"

var (
	// ErrUserNotFound - no account with the requested id. 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken - registration with an already-registered email. 400.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken - registration with an already-taken username. 400.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials - bad username or password on /token. 401.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)
