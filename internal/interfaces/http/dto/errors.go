package dto

import (
	"net/http"
	"strings"
)

// General error codes used by handlers and middleware when no
// domain error is available.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall through to suffix matching in
// GetHTTPStatus, so only the exceptions need listing here.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	// Uniqueness conflicts
	"USERNAME_TAKEN":   http.StatusConflict,
	"EMAIL_TAKEN":      http.StatusConflict,
	"SKU_TAKEN":        http.StatusConflict,
	"SLUG_TAKEN":       http.StatusConflict,
	"CODE_TAKEN":       http.StatusConflict,
	"ALREADY_EXISTS":   http.StatusConflict,
	"ALREADY_REVIEWED": http.StatusConflict,
	"COUPON_IN_USE":    http.StatusConflict,

	// Business rule violations
	"CATEGORY_NOT_EMPTY":  http.StatusConflict,
	"INSUFFICIENT_STOCK":  http.StatusUnprocessableEntity,
	"EMPTY_CART":          http.StatusUnprocessableEntity,
	"EMPTY_ORDER":         http.StatusUnprocessableEntity,
	"DUPLICATE_PRODUCT":   http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE": http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"COUPON_NOT_ACTIVE":   http.StatusUnprocessableEntity,
	"COUPON_NOT_STARTED":  http.StatusUnprocessableEntity,
	"COUPON_EXPIRED":      http.StatusUnprocessableEntity,
	"COUPON_EXHAUSTED":    http.StatusUnprocessableEntity,
	"COUPON_MIN_SUBTOTAL": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":      http.StatusUnprocessableEntity,
	"ALREADY_ARCHIVED":    http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED": http.StatusUnprocessableEntity,
	"ALREADY_DISABLED":    http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":    http.StatusUnprocessableEntity,
	"NOT_DEACTIVATED":     http.StatusUnprocessableEntity,

	// Image pipeline
	"STORAGE_DISABLED":       http.StatusServiceUnavailable,
	"UNSUPPORTED_IMAGE_TYPE": http.StatusUnprocessableEntity,
	"IMAGE_NOT_UPLOADED":     http.StatusUnprocessableEntity,

	// Internal failures
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unlisted codes are resolved by convention: *_NOT_FOUND is 404 and
// INVALID_* is 400. Anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
