package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIKey_IsExpired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("NoExpiryNeverExpires", func(t *testing.T) {
		apiKey := &APIKey{ExpiresAt: nil}
		assert.False(t, apiKey.IsExpired(now))
		assert.False(t, apiKey.IsExpired(now.AddDate(100, 0, 0)))
	})

	t.Run("BeforeExpiry", func(t *testing.T) {
		expiresAt := now.Add(time.Hour)
		apiKey := &APIKey{ExpiresAt: &expiresAt}
		assert.False(t, apiKey.IsExpired(now))
	})

	t.Run("AtExpiryBoundary", func(t *testing.T) {
		apiKey := &APIKey{ExpiresAt: &now}
		assert.False(t, apiKey.IsExpired(now))
		assert.True(t, apiKey.IsExpired(now.Add(time.Nanosecond)))
	})

	t.Run("AfterExpiry", func(t *testing.T) {
		expiresAt := now.Add(-time.Hour)
		apiKey := &APIKey{ExpiresAt: &expiresAt}
		assert.True(t, apiKey.IsExpired(now))
	})
}

func TestAPIKey_MaskedKey(t *testing.T) {
	t.Run("MasksMiddle", func(t *testing.T) {
		apiKey := &APIKey{Key: "pqv_0123456789abcdef0123456789abcdef0123456789abcdef"}
		assert.Equal(t, "pqv_0123...cdef", apiKey.MaskedKey())
	})

	t.Run("ShortKeyUnmasked", func(t *testing.T) {
		apiKey := &APIKey{Key: "pqv_0123"}
		assert.Equal(t, "pqv_0123", apiKey.MaskedKey())
	})
}
