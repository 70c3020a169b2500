// Package errors provides structured error handling for Tasteline.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Index and storage errors
//   - 3XX: Embedding model errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIndex indicates index and artifact storage errors.
	CategoryIndex Category = "INDEX"
	// CategoryModel indicates embedding model errors.
	CategoryModel Category = "MODEL"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Index errors (200-299)
	ErrCodeIndexMissing = "ERR_201_INDEX_MISSING"
	ErrCodeCorruptIndex = "ERR_202_CORRUPT_INDEX"
	ErrCodeIndexBuild   = "ERR_203_INDEX_BUILD"

	// Model errors (300-399)
	ErrCodeModelUnavailable = "ERR_301_MODEL_UNAVAILABLE"
	ErrCodeEmbeddingFailed  = "ERR_302_EMBEDDING_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidQuery      = "ERR_401_INVALID_QUERY"
	ErrCodeInvalidMethod     = "ERR_402_INVALID_METHOD"
	ErrCodeLimitOutOfRange   = "ERR_403_LIMIT_OUT_OF_RANGE"
	ErrCodeDimensionMismatch = "ERR_404_DIMENSION_MISMATCH"
	ErrCodeEmptyCorpus       = "ERR_405_EMPTY_CORPUS"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
	ErrCodeCorpusQuery  = "ERR_503_CORPUS_QUERY"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract the leading digit of the numeric portion
	// (e.g., '2' from "ERR_201_INDEX_MISSING").
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIndex
	case '3':
		return CategoryModel
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCorruptIndex:
		return SeverityFatal
	case ErrCodeModelUnavailable, ErrCodeIndexMissing:
		// Fatal to one method only, the process degrades to the others.
		return SeverityWarning
	}
	return SeverityError
}
