// Package errors provides custom error types for catalog operations.
package errors

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

var ErrStoreUnavailable = errors.New("primary store unavailable")
var ErrIndexUnavailable = errors.New("search index unavailable")

var ErrValidation = errors.New("validation failed")
var ErrEmptyQuery = errors.New("query parameter is required")

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	KindMissingField ValidationKind = "missing-required-field"
	KindInvalidValue ValidationKind = "invalid-value"
)

// ValidationError reports a request that cannot be turned into a valid product.
// It never reaches the store layer.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MissingField returns a ValidationError for an absent or empty required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Message: "missing required field"}
}

// InvalidValue returns a ValidationError for a field whose value is present but unusable.
func InvalidValue(field, message string) *ValidationError {
	return &ValidationError{Kind: KindInvalidValue, Field: field, Message: message}
}
