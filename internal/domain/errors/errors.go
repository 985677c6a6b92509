package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidState  = errors.New("invalid order state")
	ErrNoKeyMaterial = errors.New("no key material stored")
	ErrOutOfStock    = errors.New("out of stock")
	ErrInvalidAmount = errors.New("invalid amount")
)
