// Package repository implements API key persistence for PostgreSQL and MySQL.
// Lazy expiration is a compare-and-set update so concurrent validations racing
// past the expiry boundary observe a single transition.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	"github.com/allisson/pqvault/internal/database"
	apperrors "github.com/allisson/pqvault/internal/errors"
)

// PostgreSQLAPIKeyRepository implements API key persistence for PostgreSQL databases.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL API key repository instance.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

// Create inserts a new API key record.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (id, owner_id, key, name, description, is_active, created_at, last_used_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.OwnerID,
		apiKey.Key,
		apiKey.Name,
		apiKey.Description,
		apiKey.IsActive,
		apiKey.CreatedAt,
		apiKey.LastUsedAt,
		apiKey.ExpiresAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetByKey retrieves a record by its key value, active or not.
func (p *PostgreSQLAPIKeyRepository) GetByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := apiKeySelectColumns + ` FROM api_keys WHERE key = $1 LIMIT 1`

	return scanAPIKey(querier.QueryRowContext(ctx, query, key), "failed to get api key by key")
}

// GetByID retrieves a record by its identifier.
func (p *PostgreSQLAPIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := apiKeySelectColumns + ` FROM api_keys WHERE id = $1 LIMIT 1`

	return scanAPIKey(querier.QueryRowContext(ctx, query, id), "failed to get api key by id")
}

// ListActiveByOwner retrieves the owner's active records, newest first.
func (p *PostgreSQLAPIKeyRepository) ListActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := apiKeySelectColumns + ` FROM api_keys WHERE owner_id = $1 AND is_active ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys by owner")
	}
	defer func() { _ = rows.Close() }()

	var apiKeys []*apikeyDomain.APIKey
	for rows.Next() {
		apiKey, err := scanAPIKey(rows, "failed to scan api key row")
		if err != nil {
			return nil, err
		}
		apiKeys = append(apiKeys, apiKey)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api key rows")
	}

	return apiKeys, nil
}

// Deactivate sets is_active to false.
func (p *PostgreSQLAPIKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET is_active = FALSE WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate api key")
	}
	return nil
}

// DeactivateIfExpired deactivates the record only if it is still active and
// past its expiry. Returns whether this call applied the transition.
func (p *PostgreSQLAPIKeyRepository) DeactivateIfExpired(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET is_active = FALSE
			  WHERE id = $1 AND is_active AND expires_at IS NOT NULL AND expires_at <= $2`

	result, err := querier.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to deactivate expired api key")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return affected > 0, nil
}

// DeactivateExpired bulk-deactivates every active record past its expiry.
func (p *PostgreSQLAPIKeyRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET is_active = FALSE
			  WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to deactivate expired api keys")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return affected, nil
}

// TouchLastUsedAt stamps a successful validation.
func (p *PostgreSQLAPIKeyRepository) TouchLastUsedAt(ctx context.Context, id uuid.UUID, now time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, now, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch last_used_at")
	}
	return nil
}

// apiKeySelectColumns is the shared column list for API key reads.
const apiKeySelectColumns = `SELECT id, owner_id, key, name, description, is_active, created_at, last_used_at, expires_at`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAPIKey scans an API key row, mapping sql.ErrNoRows to ErrNotFound.
func scanAPIKey(row rowScanner, wrapMsg string) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	err := row.Scan(
		&apiKey.ID,
		&apiKey.OwnerID,
		&apiKey.Key,
		&apiKey.Name,
		&apiKey.Description,
		&apiKey.IsActive,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
		&apiKey.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	return &apiKey, nil
}
