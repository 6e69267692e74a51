// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "specialization", "curriculum", "record"
	Op      string // Operation that failed, e.g., "Create", "Validate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Resident domain errors
var (
	ErrResidentNotFound      = NewDomainError("resident", "Find", ErrNotFound, "resident not found")
	ErrResidentAlreadyExists = NewDomainError("resident", "Create", ErrAlreadyExists, "resident already exists")
	ErrNotRecordOwner        = NewDomainError("resident", "CheckOwnership", ErrForbidden, "record belongs to another resident")
)

// Specialization domain errors
var (
	ErrSpecializationNotFound = NewDomainError("specialization", "Find", ErrNotFound, "specialization not found")
	ErrModuleNotFound         = NewDomainError("specialization", "FindModule", ErrNotFound, "module not found")
	ErrNoActiveModule         = NewDomainError("specialization", "ActiveModule", ErrInvalidState, "no active module")
	ErrModuleAlreadyActive    = NewDomainError("specialization", "Activate", ErrInvalidState, "another module is already active")
	ErrModuleTransition       = NewDomainError("specialization", "Transition", ErrStateTransition, "invalid module status transition")
)

// Curriculum domain errors
var (
	ErrTemplateNotFound       = NewDomainError("curriculum", "GetTemplate", ErrNotFound, "curriculum template not found")
	ErrModuleTemplateNotFound = NewDomainError("curriculum", "GetModuleTemplate", ErrNotFound, "module template not found")
	ErrTemplateStoreFailure   = NewDomainError("curriculum", "GetTemplate", ErrExternalService, "template store request failed")
)

// Record domain errors
var (
	ErrRecordNotFound = NewDomainError("record", "Find", ErrNotFound, "record not found")
	ErrRecordApproved = NewDomainError("record", "Modify", ErrInvalidState, "approved records cannot be modified")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrTimeout)
}
