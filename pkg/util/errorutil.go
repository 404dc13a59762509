package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes rendered in the response body.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeDuplicateAccount  = "DUPLICATE_ACCOUNT"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodePasswordIncorrect = "PASSWORD_INCORRECT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewDuplicateAccount(email string) error {
	return NewDomainError(CodeDuplicateAccount, "account already exists", http.StatusBadRequest,
		map[string]any{"email": email})
}

func NewAccountNotFound() error {
	return NewDomainError(CodeAccountNotFound, "account not found", http.StatusNotFound, nil)
}

func NewPasswordIncorrect() error {
	return NewDomainError(CodePasswordIncorrect, "password incorrect", http.StatusBadRequest, nil)
}

// NewUnauthorized is the single rejection used for every authentication failure,
// so callers cannot tell a revoked token from an expired or forged one.
func NewUnauthorized() error {
	return NewDomainError(CodeUnauthorized, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func fromFiberError(err *fiber.Error) *DomainError {
	code := CodeInternal
	switch err.Code {
	case http.StatusBadRequest:
		code = CodeValidation
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusForbidden:
		code = CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = CodeNotFound
	}
	return &DomainError{Code: code, Message: err.Message, HTTPStatus: err.Code}
}
