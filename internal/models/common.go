package models

// ErrorResponse is the JSON error payload returned by the API
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeStorageError    = "STORAGE_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeGatewayError    = "GATEWAY_ERROR"
	ErrCodeRequestNotFound = "REQUEST_NOT_FOUND"
)
