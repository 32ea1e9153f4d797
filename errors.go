package contentrec

import "github.com/kailas-cloud/contentrec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration       = domain.ErrConfiguration
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrInitialization      = domain.ErrInitialization
	ErrUnsupportedLanguage = domain.ErrUnsupportedLanguage
)

// Typed errors carrying details. Use errors.As() to inspect them.
type (
	ConfigurationError       = domain.ConfigurationError
	InvalidInputError        = domain.InvalidInputError
	InitializationError      = domain.InitializationError
	UnsupportedLanguageError = domain.UnsupportedLanguageError
)
