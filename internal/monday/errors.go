package monday

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category classifies upstream failures so callers can branch without
// parsing message text.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryPermission Category = "permission"
	CategoryRateLimit  Category = "rate_limit"
	CategoryNotFound   Category = "not_found"
	CategoryTransport  Category = "transport"
)

// Error is a categorized upstream failure. The API token never appears in
// its fields.
type Error struct {
	Category   Category
	Operation  string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("monday %s: %s (%s)", e.Operation, e.Message, e.Category)
	}
	return fmt.Sprintf("monday: %s (%s)", e.Message, e.Category)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCategory reports whether err is an upstream error of the given category.
func IsCategory(err error, cat Category) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Category == cat
	}
	return false
}

// categorize maps HTTP status, monday error codes, and message heuristics to
// a category. Unknown failures land in transport.
func categorize(statusCode int, code, message string) Category {
	switch statusCode {
	case http.StatusUnauthorized:
		return CategoryAuth
	case http.StatusForbidden:
		return CategoryPermission
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	case http.StatusNotFound:
		return CategoryNotFound
	}

	switch code {
	case "InvalidTokenException", "Unauthorized", "AuthenticationException":
		return CategoryAuth
	case "UserUnauthorizedException", "PermissionException":
		return CategoryPermission
	case "ComplexityException", "RateLimitExceeded":
		return CategoryRateLimit
	case "InvalidBoardIdException", "InvalidItemIdException",
		"InvalidColumnIdException", "ResourceNotFoundException":
		return CategoryNotFound
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "not found"),
		strings.Contains(lower, "doesn't exist"),
		strings.Contains(lower, "cannot query field"):
		return CategoryNotFound
	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "complexity budget"):
		return CategoryRateLimit
	case strings.Contains(lower, "not authenticated"),
		strings.Contains(lower, "invalid token"):
		return CategoryAuth
	}
	return CategoryTransport
}
