// Package apperror holds the error taxonomy shared by all modules: validation
// failures carrying every violated rule, missing resources, state conflicts and
// document delivery failures.
package apperror

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDocumentDelivery = errors.New("document delivery failed")
)

// ValidationError lists every violated rule of a request.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// ConflictError reports that the request clashes with the current state.
type ConflictError struct {
	Message string
	Errors  []string
}

func (e *ConflictError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// Validation returns nil when errs is empty.
func Validation(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Message: "Validation failed for one or more fields", Errors: errs}
}

func Conflict(msg string, errs ...string) error {
	return &ConflictError{Message: msg, Errors: errs}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
