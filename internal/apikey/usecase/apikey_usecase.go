package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	apikeyService "github.com/allisson/pqvault/internal/apikey/service"
	"github.com/allisson/pqvault/internal/database"
	apperrors "github.com/allisson/pqvault/internal/errors"
)

// apiKeyUseCase implements the APIKeyUseCase interface.
type apiKeyUseCase struct {
	txManager         database.TxManager
	apiKeyRepo        APIKeyRepository
	keyGenerator      apikeyService.KeyGenerator
	defaultExpiryDays int
	maxExpiryDays     int
}

// Generate issues a new API key for the owner.
func (a *apiKeyUseCase) Generate(
	ctx context.Context,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	expiresAt := a.expiryFromDays(input.ExpiryDays, time.Now().UTC())
	return a.issue(ctx, input.OwnerID, input.Name, input.Description, expiresAt)
}

// Validate checks a bearer key value and stamps last_used_at on success.
func (a *apiKeyUseCase) Validate(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.GetByKey(ctx, key)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apikeyDomain.ErrInvalidAPIKey
		}
		return nil, err
	}

	if !apiKey.IsActive {
		return nil, apikeyDomain.ErrInvalidAPIKey
	}

	now := time.Now().UTC()
	if apiKey.IsExpired(now) {
		// Lazy expiration: commit the deactivation even though validation
		// fails. The compare-and-set keeps concurrent validators from racing
		// past the expiry boundary.
		if _, err := a.apiKeyRepo.DeactivateIfExpired(ctx, apiKey.ID, now); err != nil {
			return nil, err
		}
		return nil, apikeyDomain.ErrInvalidAPIKey
	}

	if err := a.apiKeyRepo.TouchLastUsedAt(ctx, apiKey.ID, now); err != nil {
		return nil, err
	}
	apiKey.LastUsedAt = &now

	return apiKey, nil
}

// Rotate deactivates the record and issues a fresh key for the same owner and name.
func (a *apiKeyUseCase) Rotate(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	oldKey, err := a.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, err
	}

	// The replacement keeps the old record's expiry window length, measured
	// from now. A record without an expiry rotates to one without an expiry.
	var expiresAt *time.Time
	now := time.Now().UTC()
	if oldKey.ExpiresAt != nil {
		e := now.Add(oldKey.ExpiresAt.Sub(oldKey.CreatedAt))
		expiresAt = &e
	}

	var newKey *apikeyDomain.APIKey
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.apiKeyRepo.Deactivate(ctx, oldKey.ID); err != nil {
			return err
		}
		newKey, err = a.issue(ctx, oldKey.OwnerID, oldKey.Name, oldKey.Description, expiresAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newKey, nil
}

// Revoke deactivates the record.
func (a *apiKeyUseCase) Revoke(ctx context.Context, id uuid.UUID) error {
	if _, err := a.apiKeyRepo.GetByID(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apikeyDomain.ErrAPIKeyNotFound
		}
		return err
	}
	return a.apiKeyRepo.Deactivate(ctx, id)
}

// Get retrieves a record by its identifier.
func (a *apiKeyUseCase) Get(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, err
	}
	return apiKey, nil
}

// List retrieves the owner's active records.
func (a *apiKeyUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.ListActiveByOwner(ctx, ownerID)
}

// SweepExpired bulk-deactivates expired active keys.
func (a *apiKeyUseCase) SweepExpired(ctx context.Context) (int64, error) {
	return a.apiKeyRepo.DeactivateExpired(ctx, time.Now().UTC())
}

// issue creates and persists a fresh record with a newly generated key value.
func (a *apiKeyUseCase) issue(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
	expiresAt *time.Time,
) (*apikeyDomain.APIKey, error) {
	key, err := a.keyGenerator.GenerateKey()
	if err != nil {
		return nil, err
	}

	apiKey := &apikeyDomain.APIKey{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		Key:         key,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
	}

	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return apiKey, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the given dependencies.
// Non-positive expiry bounds fall back to the domain defaults.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	keyGenerator apikeyService.KeyGenerator,
	defaultExpiryDays, maxExpiryDays int,
) APIKeyUseCase {
	if defaultExpiryDays <= 0 {
		defaultExpiryDays = apikeyDomain.DefaultExpiryDays
	}
	if maxExpiryDays <= 0 {
		maxExpiryDays = apikeyDomain.MaxExpiryDays
	}

	return &apiKeyUseCase{
		txManager:         txManager,
		apiKeyRepo:        apiKeyRepo,
		keyGenerator:      keyGenerator,
		defaultExpiryDays: defaultExpiryDays,
		maxExpiryDays:     maxExpiryDays,
	}
}

// expiryFromDays maps the requested horizon to an absolute expiry. Zero
// selects the default; out-of-range values clamp to the allowed bounds.
func (a *apiKeyUseCase) expiryFromDays(days int, now time.Time) *time.Time {
	switch {
	case days == 0:
		days = a.defaultExpiryDays
	case days < apikeyDomain.MinExpiryDays:
		days = apikeyDomain.MinExpiryDays
	case days > a.maxExpiryDays:
		days = a.maxExpiryDays
	}
	expiresAt := now.AddDate(0, 0, days)
	return &expiresAt
}
