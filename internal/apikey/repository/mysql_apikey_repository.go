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

// MySQLAPIKeyRepository implements API key persistence for MySQL databases.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQL API key repository instance.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

// Create inserts a new API key record.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO api_keys (id, owner_id, `key`, name, description, is_active, created_at, last_used_at, expires_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerIDBytes, err := apiKey.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		ownerIDBytes,
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
func (m *MySQLAPIKeyRepository) GetByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlAPIKeySelectColumns + " FROM api_keys WHERE `key` = ? LIMIT 1"

	return scanMySQLAPIKey(querier.QueryRowContext(ctx, query, key), "failed to get api key by key")
}

// GetByID retrieves a record by its identifier.
func (m *MySQLAPIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := mysqlAPIKeySelectColumns + ` FROM api_keys WHERE id = ? LIMIT 1`

	return scanMySQLAPIKey(querier.QueryRowContext(ctx, query, idBytes), "failed to get api key by id")
}

// ListActiveByOwner retrieves the owner's active records, newest first.
func (m *MySQLAPIKeyRepository) ListActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	ownerIDBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := mysqlAPIKeySelectColumns + ` FROM api_keys WHERE owner_id = ? AND is_active ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, ownerIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys by owner")
	}
	defer func() { _ = rows.Close() }()

	var apiKeys []*apikeyDomain.APIKey
	for rows.Next() {
		apiKey, err := scanMySQLAPIKey(rows, "failed to scan api key row")
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
func (m *MySQLAPIKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE api_keys SET is_active = FALSE WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate api key")
	}
	return nil
}

// DeactivateIfExpired deactivates the record only if it is still active and
// past its expiry. Returns whether this call applied the transition.
func (m *MySQLAPIKeyRepository) DeactivateIfExpired(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE api_keys SET is_active = FALSE
			  WHERE id = ? AND is_active AND expires_at IS NOT NULL AND expires_at <= ?`

	result, err := querier.ExecContext(ctx, query, idBytes, now)
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
func (m *MySQLAPIKeyRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys SET is_active = FALSE
			  WHERE is_active AND expires_at IS NOT NULL AND expires_at <= ?`

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
func (m *MySQLAPIKeyRepository) TouchLastUsedAt(ctx context.Context, id uuid.UUID, now time.Time) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, now, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch last_used_at")
	}
	return nil
}

// mysqlAPIKeySelectColumns is the shared column list for MySQL API key reads.
const mysqlAPIKeySelectColumns = "SELECT id, owner_id, `key`, name, description, is_active, created_at, last_used_at, expires_at"

// scanMySQLAPIKey scans an API key row, converting BINARY(16) UUID columns.
func scanMySQLAPIKey(row rowScanner, wrapMsg string) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var idBytes, ownerIDBytes []byte

	err := row.Scan(
		&idBytes,
		&ownerIDBytes,
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

	if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := apiKey.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &apiKey, nil
}
