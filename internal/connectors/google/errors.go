package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions, or a per-user rate
	// ceiling, which Drive also reports as 403.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return is(err, ErrUnauthorized, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return is(err, ErrForbidden, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return is(err, ErrNotFound, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return is(err, ErrRateLimited, http.StatusTooManyRequests)
}

func is(err, sentinel error, code int) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	return StatusCode(err) == code
}

// StatusCode returns the HTTP status of a Google API error, or 0.
func StatusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// Classify returns a short label for err suitable as error context.
// It returns an empty string for errors that did not come from the API.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUnauthorized(err):
		return "unauthorised"
	case IsForbidden(err):
		return "forbidden"
	case IsNotFound(err):
		return "not found"
	case IsRateLimited(err):
		return "rate limited"
	}
	if code := StatusCode(err); code != 0 {
		return http.StatusText(code)
	}
	return ""
}

// Reasons returns the reason codes Google attached to err, e.g. "userRateLimitExceeded".
func Reasons(err error) []string {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return nil
	}
	reasons := make([]string, 0, len(gerr.Errors))
	for _, item := range gerr.Errors {
		if item.Reason != "" {
			reasons = append(reasons, item.Reason)
		}
	}
	return reasons
}
