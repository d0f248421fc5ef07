package assessment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuth marks a credential failure from the model provider. Retrying cannot
// fix it, so callers abort immediately.
var ErrAuth = errors.New("generative model rejected credentials")

// ParseError reports model output from which no valid JSON value could be
// recovered. It is retryable: a fresh completion may parse fine.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
	}
	return "model output contains no JSON value"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err carries ErrAuth.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403")
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429")
}
