package adopte_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimited       = errors.New("rate limited")
	ErrAlreadyExists     = errors.New("already exists")
	ErrUnavailable       = errors.New("service unavailable")
)

// Not-found conditions carry the exact wording the API contract promises.
// Listing operations fail with these; the access check never does (it answers
// with a structured verdict instead).
var (
	ErrUserNotFound         = errors.New("User not found")
	ErrConversationNotFound = errors.New("Conversation not found")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
