package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	"github.com/allisson/pqvault/internal/metrics"
)

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration for an API key operation.
func (a *apiKeyUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "apikey", operation, status)
	a.metrics.RecordDuration(ctx, "apikey", operation, time.Since(start), status)
}

// Generate records metrics for key issuance operations.
func (a *apiKeyUseCaseWithMetrics) Generate(
	ctx context.Context,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Generate(ctx, input)
	a.record(ctx, "apikey_generate", start, err)
	return apiKey, err
}

// Validate records metrics for key validation operations.
func (a *apiKeyUseCaseWithMetrics) Validate(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Validate(ctx, key)
	a.record(ctx, "apikey_validate", start, err)
	return apiKey, err
}

// Rotate records metrics for key rotation operations.
func (a *apiKeyUseCaseWithMetrics) Rotate(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Rotate(ctx, id)
	a.record(ctx, "apikey_rotate", start, err)
	return apiKey, err
}

// Revoke records metrics for key revocation operations.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, id)
	a.record(ctx, "apikey_revoke", start, err)
	return err
}

// Get records metrics for key retrieval operations.
func (a *apiKeyUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Get(ctx, id)
	a.record(ctx, "apikey_get", start, err)
	return apiKey, err
}

// List records metrics for key listing operations.
func (a *apiKeyUseCaseWithMetrics) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, ownerID)
	a.record(ctx, "apikey_list", start, err)
	return apiKeys, err
}

// SweepExpired records metrics for bulk expiration sweeps.
func (a *apiKeyUseCaseWithMetrics) SweepExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := a.next.SweepExpired(ctx)
	a.record(ctx, "apikey_sweep_expired", start, err)
	return count, err
}
