package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrDuplicateHandle = errors.New("username already taken")

	ErrInvalidCredentials = errors.New("invalid username or password")
)
