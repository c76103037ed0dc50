package model

import (
	"fmt"
	"time"
)

// ValidationError covers malformed caller input (HTTP 400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedPlatformError is raised when no platform pattern matches a URL.
type UnsupportedPlatformError struct {
	URL string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform for url: %s", e.URL)
}

// AuthenticationError covers bad or missing credentials (HTTP 401).
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

// InsufficientCreditsError is signaled synchronously before a job record
// is created (HTTP 402).
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Required, e.Available)
}

// NotFoundError covers expired or unknown jobs and shares (HTTP 404).
// Callers must treat absence as "expired", never as "still pending".
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ProviderError carries an upstream scraping failure, including the
// upstream status code and response body when available.
type ProviderError struct {
	Op     string
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s failed: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Op, e.Body)
}

// EmptySnapshotError means a snapshot downloaded with zero parseable
// records. Surfaced to callers as a provider failure.
type EmptySnapshotError struct {
	SnapshotID string
}

func (e *EmptySnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s contained no parseable records", e.SnapshotID)
}

// RateLimitError carries the remaining window for Retry-After (HTTP 429).
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}
