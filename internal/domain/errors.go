package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration signals an invalid option value.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput signals a malformed document collection.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInitialization signals a tokenizer or dictionary load failure.
	ErrInitialization = errors.New("initialization failed")
	// ErrUnsupportedLanguage signals an unknown language tag.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrModelNotFound signals a missing named model.
	ErrModelNotFound = errors.New("model not found")
)

// ConfigurationError names the offending option and the constraint it violates.
type ConfigurationError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: option %s %s", ErrConfiguration.Error(), e.Field, e.Constraint)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

// NewConfigurationError creates a configuration error for a field.
func NewConfigurationError(field, constraint string) error {
	return &ConfigurationError{Field: field, Constraint: constraint}
}

// InvalidInputError describes why a document collection was rejected.
// Index is -1 when the problem is not tied to a single document.
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: document %d: %s", ErrInvalidInput.Error(), e.Index, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput creates an invalid input error for the document at index.
func NewInvalidInput(index int, reason string) error {
	return &InvalidInputError{Index: index, Reason: reason}
}

// InitializationError wraps the cause of a failed tokenizer initialization.
type InitializationError struct {
	Component string
	Err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInitialization.Error(), e.Component, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *InitializationError) Unwrap() []error { return []error{ErrInitialization, e.Err} }

// UnsupportedLanguageError reports an unknown tag and the set of accepted ones.
type UnsupportedLanguageError struct {
	Tag     string
	Allowed []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%s %q (allowed: %s)",
		ErrUnsupportedLanguage.Error(), e.Tag, strings.Join(e.Allowed, ", "))
}

func (e *UnsupportedLanguageError) Unwrap() error { return ErrUnsupportedLanguage }
