// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants supplement the human-readable messages in the
// error envelope with a stable, machine-readable taxonomy. Codes are
// lowercase snake_case; generic codes mirror HTTP status semantics.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
