package services

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const maxBackoff = 30 * time.Second

// IsRetryable reports whether a generation error is worth another attempt.
// Client errors other than rate limiting are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return true
}

// Backoff returns the wait before retry attempt n (0-indexed): initial
// doubled per attempt, capped at 30s, plus up to 50% jitter.
func Backoff(initial time.Duration, attempt int) time.Duration {
	if initial <= 0 {
		initial = time.Second
	}
	base := initial
	for i := 0; i < attempt && base < maxBackoff; i++ {
		base *= 2
	}
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}
