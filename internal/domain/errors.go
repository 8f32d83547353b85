package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrSchemaInvalid    ErrorCode = "SCHEMA_INVALID"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewFetchError(url string, err error) *DomainError {
	return NewError(ErrFetchFailed, fmt.Sprintf("Failed to fetch URL: %s", url), err)
}

func NewExtractionError(message string) *DomainError {
	return NewError(ErrExtractionFailed, message, nil)
}

func NewSchemaError(message string, err error) *DomainError {
	return NewError(ErrSchemaInvalid, message, err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(ErrGenerationFailed, "Failed to generate quiz with LLM service", err)
}
