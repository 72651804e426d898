package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid transaction")
	ErrNotFound   = errors.New("transaction not found")
)

type ValidationCode string

const (
	InvalidAmount   ValidationCode = "InvalidAmount"
	InvalidTransfer ValidationCode = "InvalidTransfer"
	InvalidType     ValidationCode = "InvalidType"
	InvalidPage     ValidationCode = "InvalidPage"
)

// ValidationError is returned when input breaks a structural or business rule.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func NewValidationError(code ValidationCode, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned when a referenced transaction id does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Transaction not found with id: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
