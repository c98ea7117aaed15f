package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownSubject     = errors.New("unknown subject")
	ErrUnknownGame        = errors.New("unknown game")
	ErrUnknownClass       = errors.New("unknown class")
)
