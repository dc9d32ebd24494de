// Package domain defines the API key entity and its expiry rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents an opaque bearer credential bound to an owner.
//
// The key value is disclosed in full exactly once, when issued; read
// operations afterwards expose only a masked preview.
type APIKey struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	// Key is the bearer secret. Format: prefix plus hex from a
	// cryptographically secure random source.
	Key string

	Name        string
	Description string

	IsActive   bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
}

// IsExpired reports whether the key's expiry horizon has passed.
// A key without an expiry never expires. Pure predicate; deactivation of
// expired keys happens in the use case, not here.
func (k *APIKey) IsExpired(now time.Time) bool {
	if k.ExpiresAt == nil {
		return false
	}
	return now.After(*k.ExpiresAt)
}

// MaskedKey returns a preview safe for read-back interfaces: the first 8 and
// last 4 characters of the key value.
func (k *APIKey) MaskedKey() string {
	if len(k.Key) <= maskPrefixLen+maskSuffixLen {
		return k.Key
	}
	return k.Key[:maskPrefixLen] + "..." + k.Key[len(k.Key)-maskSuffixLen:]
}

// GenerateAPIKeyInput contains the parameters for issuing an API key.
// ExpiryDays of zero selects the default horizon.
type GenerateAPIKeyInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	ExpiryDays  int
}
