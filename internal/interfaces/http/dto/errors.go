package dto

import "net/http"

// Error codes surfaced by the API. Domain error codes are passed through
// unchanged so clients can switch on them; the codes below cover the
// transport layer itself.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or sheet validation fails
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// Resource conflicts -> 409
	"ALREADY_EXISTS":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"DUPLICATE_ACTIVE_SHEET": http.StatusConflict,

	// Business rule violations -> 422
	"ALREADY_CLOSED":         http.StatusUnprocessableEntity,
	"CLOSED_SHEET_IMMUTABLE": http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"UNKNOWN_CUSTOMER":       http.StatusUnprocessableEntity,
	"MISSING_RATE":           http.StatusUnprocessableEntity,
	"NEGATIVE_QUANTITY":      http.StatusUnprocessableEntity,
	"NEGATIVE_AMOUNT":        http.StatusUnprocessableEntity,
	"INVALID_CHANNEL":        http.StatusUnprocessableEntity,

	// Input errors -> 400
	"INVALID_INPUT": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
