// Package usecase implements the API key lifecycle: issuance with a bounded
// expiry horizon, validation with lazy expiration, rotation, listing and bulk
// cleanup of expired keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
)

// APIKeyRepository defines the interface for API key persistence operations.
type APIKeyRepository interface {
	// Create inserts a new API key record.
	Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error

	// GetByKey retrieves a record by its key value, active or not.
	GetByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error)

	// GetByID retrieves a record by its identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error)

	// ListActiveByOwner retrieves the owner's active records, newest first.
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Deactivate sets is_active to false. Deactivating an inactive record is
	// a no-op, not an error.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// DeactivateIfExpired applies the lazy-expiration transition as a
	// compare-and-set: the record is deactivated only if it is still active
	// and its expiry has passed. Exactly one of any concurrent callers
	// observes the transition.
	DeactivateIfExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	// DeactivateExpired bulk-deactivates every active record past its expiry
	// and returns the number of records affected.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// TouchLastUsedAt stamps a successful validation.
	TouchLastUsedAt(ctx context.Context, id uuid.UUID, now time.Time) error
}

// APIKeyUseCase defines the interface for API key lifecycle business logic.
type APIKeyUseCase interface {
	// Generate issues a new key for the owner. The key value in the returned
	// record is disclosed here and never again; subsequent reads expose only
	// a masked preview. An ExpiryDays of zero selects the default horizon;
	// out-of-range values are clamped to the allowed bounds.
	Generate(ctx context.Context, input *apikeyDomain.GenerateAPIKeyInput) (*apikeyDomain.APIKey, error)

	// Validate checks a bearer key value and stamps last_used_at on success.
	// Unknown, inactive and expired keys all fail with ErrInvalidAPIKey; an
	// active key past its expiry is deactivated before the failure is
	// reported. A failed validation never stamps last_used_at.
	Validate(ctx context.Context, key string) (*apikeyDomain.APIKey, error)

	// Rotate deactivates the record and issues a fresh key for the same
	// owner and name with a reset expiry window, atomically. The old key
	// value is never reused.
	Rotate(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error)

	// Revoke deactivates the record. Idempotent.
	Revoke(ctx context.Context, id uuid.UUID) error

	// Get retrieves a record by its identifier.
	Get(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error)

	// List retrieves the owner's active records, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// SweepExpired bulk-deactivates expired active keys and returns the
	// count. Optional hygiene: Validate self-enforces expiration.
	SweepExpired(ctx context.Context) (int64, error)
}
