// Package errors provides structured error types for the Floe metadata core.
// All errors include a category, code, message, and retryable flag for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryExpression ErrorCategory = "EXPRESSION"
	ErrCategorySchema     ErrorCategory = "SCHEMA"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategoryCatalog    ErrorCategory = "CATALOG"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Validation codes
	CodeFieldNotFound    = "FIELD_NOT_FOUND"
	CodeInvalidLiteral   = "INVALID_LITERAL"
	CodeInvalidOperation = "INVALID_OPERATION"

	// Schema codes
	CodeDuplicateColumn  = "DUPLICATE_COLUMN"
	CodeInvalidPromotion = "INVALID_PROMOTION"
	CodeInvalidParent    = "INVALID_PARENT"
	CodeConflictingEdit  = "CONFLICTING_EDIT"

	// Storage codes
	CodeUploadFailed   = "UPLOAD_FAILED"
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Catalog codes
	CodeCommitConflict  = "COMMIT_CONFLICT"
	CodeTableNotFound   = "TABLE_NOT_FOUND"
	CodeCorruptMetadata = "CORRUPT_METADATA"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// FloeError is the structured error type used throughout the system.
type FloeError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *FloeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *FloeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *FloeError) Is(target error) bool {
	var t *FloeError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new FloeError.
func New(category ErrorCategory, code, message string) *FloeError {
	return &FloeError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Newf creates a new FloeError with a formatted message.
func Newf(category ErrorCategory, code, format string, args ...interface{}) *FloeError {
	return New(category, code, fmt.Sprintf(format, args...))
}

// Wrap creates a new FloeError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *FloeError {
	return &FloeError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *FloeError) WithDetails(details map[string]interface{}) *FloeError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var fe *FloeError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a FloeError.
func GetCategory(err error) ErrorCategory {
	var fe *FloeError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a FloeError.
func GetCode(err error) string {
	var fe *FloeError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsValidation reports whether the error chain contains a validation failure.
// Validation errors are user errors: the originating builder remains usable.
func IsValidation(err error) bool {
	return GetCategory(err) == ErrCategoryValidation || GetCategory(err) == ErrCategorySchema
}

// isRetryable determines if an error code is retryable.
func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryStorage && code == CodeUploadFailed:
		return true
	case category == ErrCategoryStorage && code == CodeDownloadFailed:
		return true
	case category == ErrCategoryCatalog && code == CodeCommitConflict:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewValidationError(code, message string) *FloeError {
	return New(ErrCategoryValidation, code, message)
}

func NewSchemaError(code, message string) *FloeError {
	return New(ErrCategorySchema, code, message)
}

func NewStorageError(code, message string, cause error) *FloeError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewCatalogError(code, message string, cause error) *FloeError {
	return Wrap(ErrCategoryCatalog, code, message, cause)
}

func NewInternalError(message string, cause error) *FloeError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
