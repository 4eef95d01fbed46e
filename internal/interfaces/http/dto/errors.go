package dto

import (
	"net/http"

	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// Edge-level error codes for failures that never reach the catalogs
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL"
)

// statusByCode maps each catalog error code to its client-facing status
var statusByCode = map[string]int{
	shared.CodeNotFound:          http.StatusNotFound,
	shared.CodeCarNotFound:       http.StatusNotFound,
	shared.CodeBrandNotFound:     http.StatusNotFound,
	shared.CodeConflict:          http.StatusConflict,
	shared.CodeInvalidInput:      http.StatusBadRequest,
	shared.CodeImportFormat:      http.StatusBadRequest,
	shared.CodeImportFailed:      http.StatusBadRequest,
	shared.CodeRemoteUnavailable: http.StatusBadGateway,
	shared.CodeCascadeFailed:     http.StatusBadGateway,
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeUnauthorized:          http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
