package dto

import "net/http"

// Error codes produced at the HTTP layer itself. Domain errors carry
// their own codes (NOT_FOUND, INVALID_STATE, ...) and pass through
// unchanged; only the HTTP status is derived here.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request body validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// DomainErrorHTTPStatus maps domain error codes to HTTP status codes
var DomainErrorHTTPStatus = map[string]int{
	// Missing resources -> 404 Not Found
	"NOT_FOUND":       http.StatusNotFound,
	"ITEM_NOT_FOUND":  http.StatusNotFound,
	"BATCH_NOT_FOUND": http.StatusNotFound,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_PRODUCT":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":    http.StatusUnprocessableEntity,
	"NO_ITEMS":         http.StatusUnprocessableEntity,
	"MALFORMED_INPUT":  http.StatusUnprocessableEntity,
	"UNKNOWN_CURRENCY": http.StatusUnprocessableEntity,

	// Input validation failures -> 400 Bad Request
	"INVALID_INPUT":              http.StatusBadRequest,
	"INVALID_PRODUCT":            http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":       http.StatusBadRequest,
	"INVALID_QUANTITY":           http.StatusBadRequest,
	"INVALID_PRICE":              http.StatusBadRequest,
	"INVALID_DATE":               http.StatusBadRequest,
	"INVALID_CUSTOMER":           http.StatusBadRequest,
	"INVALID_CUSTOMER_NAME":      http.StatusBadRequest,
	"INVALID_SUPPLIER":           http.StatusBadRequest,
	"INVALID_ORDER":              http.StatusBadRequest,
	"INVALID_ORDER_NUMBER":       http.StatusBadRequest,
	"INVALID_PROCUREMENT_NUMBER": http.StatusBadRequest,
	"INVALID_REASON":             http.StatusBadRequest,
	"INVALID_CURRENCY":           http.StatusBadRequest,

	// HTTP-layer codes
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes default to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := DomainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
