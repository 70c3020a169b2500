package errors

import (
	stderrors "errors"
	"fmt"
)

// TastelineError is the structured error type for Tasteline.
// It provides rich context for error handling, logging, and API presentation.
type TastelineError struct {
	// Code is the unique error code (e.g., "ERR_201_INDEX_MISSING").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Index, Model, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *TastelineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TastelineError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with TastelineError.
func (e *TastelineError) Is(target error) bool {
	if t, ok := target.(*TastelineError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *TastelineError) WithDetail(key, value string) *TastelineError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new TastelineError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *TastelineError {
	return &TastelineError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a TastelineError from an existing error.
// The error's message becomes the TastelineError message.
func Wrap(code string, err error) *TastelineError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Sentinel errors for the search subsystem taxonomy. Matched by code
// via errors.Is, so wrapped instances created with New/Wrap still match.
var (
	// ErrEmptyCorpus is returned when an index build is attempted
	// against zero records. Fatal to that build, not to the process.
	ErrEmptyCorpus = New(ErrCodeEmptyCorpus, "corpus contains no records", nil)

	// ErrModelUnavailable is returned when the embedding model cannot be
	// loaded or reached. Fatal to semantic build/query only.
	ErrModelUnavailable = New(ErrCodeModelUnavailable, "embedding model unavailable", nil)

	// ErrIndexMissing is returned when a retriever is invoked before its
	// backing artifact exists. Surfaced as "method unavailable".
	ErrIndexMissing = New(ErrCodeIndexMissing, "index artifact missing", nil)

	// ErrDimensionMismatch is returned when the stored vector dimension
	// disagrees with the configured embedding model at load time.
	ErrDimensionMismatch = New(ErrCodeDimensionMismatch, "embedding dimension mismatch", nil)
)

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	var te *TastelineError
	if stderrors.As(err, &te) {
		return te.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a TastelineError anywhere in the
// chain. Returns empty string if none is present.
func GetCode(err error) string {
	var te *TastelineError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return ""
}

// GetCategory extracts the category from a TastelineError anywhere in
// the chain. Returns empty string if none is present.
func GetCategory(err error) Category {
	var te *TastelineError
	if stderrors.As(err, &te) {
		return te.Category
	}
	return ""
}
