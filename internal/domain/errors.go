package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrMalformed = errors.New("malformed document")
)
