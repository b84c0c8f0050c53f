package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	limiter := NewIPRateLimiter(1, 2, logger)

	t.Run("Same IP gets the same bucket", func(t *testing.T) {
		a := limiter.GetLimiter("10.0.0.1")
		b := limiter.GetLimiter("10.0.0.1")
		assert.Same(t, a, b)
	})

	t.Run("Different IPs get different buckets", func(t *testing.T) {
		a := limiter.GetLimiter("10.0.0.1")
		b := limiter.GetLimiter("10.0.0.2")
		assert.NotSame(t, a, b)
	})

	t.Run("Burst is enforced per IP", func(t *testing.T) {
		l := limiter.GetLimiter("10.0.0.3")
		assert.True(t, l.Allow())
		assert.True(t, l.Allow())
		assert.False(t, l.Allow())

		// An unrelated IP is unaffected
		assert.True(t, limiter.GetLimiter("10.0.0.4").Allow())
	})
}
