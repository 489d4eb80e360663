package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeIndexNotBuilt = "INDEX_NOT_BUILT"
	ErrCodeServiceError  = "SERVICE_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery          = NewDomainError(ErrCodeValidation, "query is required")
	ErrInvalidDocumentType = NewDomainError(ErrCodeValidation, "invalid document type")
	ErrMissingDelimiter    = NewDomainError(ErrCodeValidation, "document has no metadata header block")
	ErrMissingDocID        = NewDomainError(ErrCodeValidation, "missing 'docId' in metadata header")
	ErrMissingTitle        = NewDomainError(ErrCodeValidation, "missing 'title' in metadata header")
)

// Index errors
var (
	// ErrIndexNotBuilt signals that the persisted knowledge index artifact is
	// absent. Callers should run the offline build (`foliod index`) first.
	ErrIndexNotBuilt = NewDomainError(ErrCodeIndexNotBuilt, "knowledge index not built, run 'foliod index' first")
)

// External service errors
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeServiceError, "embedding service call failed")
	ErrGenerationFailed = NewDomainError(ErrCodeServiceError, "generation service call failed")
)
