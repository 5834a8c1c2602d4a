// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. These constants give clients a stable, machine-readable taxonomy
// that supplements the human-readable message in the error envelope.
//
// Codes are lowercase snake_case. Generic codes mirror common HTTP status
// semantics; domain-specific codes cover business failures the status alone
// cannot convey.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeAnswerFailed     = "answer_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeQuizFailed       = "quiz_failed"
	ErrCodeInvalidQuizStep  = "invalid_quiz_step"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
