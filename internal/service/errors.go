package service

import "errors"

// Domain failures returned by the services. Anything else is an
// infrastructure error and must be treated as internal.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrUnauthenticated   = errors.New("unauthenticated")
)
