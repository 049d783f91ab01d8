package errors

import "errors"

var (
	ErrNotFound = errors.New("conflict not found")
)
