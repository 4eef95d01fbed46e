package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so wrapped
// contextual errors still match the package sentinels via errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes shared by both catalogs
const (
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeBrandNotFound     = "BRAND_NOT_FOUND"
	CodeCarNotFound       = "CAR_NOT_FOUND"
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeCascadeFailed     = "CASCADE_FAILED"
	CodeImportFormat      = "IMPORT_FORMAT"
	CodeImportFailed      = "IMPORT_FAILED"
	CodeInvalidInput      = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict = NewDomainError(CodeConflict, "Resource already exists")

	// ErrBrandNotFound means the directory answered and the brand does not
	// exist, as opposed to ErrRemoteUnavailable where no answer was obtained
	ErrBrandNotFound     = NewDomainError(CodeBrandNotFound, "Brand was not found")
	ErrCarNotFound       = NewDomainError(CodeCarNotFound, "Car was not found")
	ErrRemoteUnavailable = NewDomainError(CodeRemoteUnavailable, "Remote dependency is unavailable")

	// ErrCascadeFailed is returned when a brand delete is aborted because the
	// dependent-car purge on the car registry failed; the brand row is kept
	ErrCascadeFailed = NewDomainError(CodeCascadeFailed, "Dependent record purge failed")

	ErrImportFormat = NewDomainError(CodeImportFormat, "Malformed bulk data")
	ErrImportFailed = NewDomainError(CodeImportFailed, "Bulk import failed")
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
)
