// Package repository implements wallet persistence for PostgreSQL and MySQL.
// The "at most one active wallet per owner" invariant is enforced by the
// database itself: a partial unique index on PostgreSQL and a stored generated
// column with a unique index on MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/pqvault/internal/database"
	apperrors "github.com/allisson/pqvault/internal/errors"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// PostgreSQLWalletRepository implements wallet persistence for PostgreSQL databases.
type PostgreSQLWalletRepository struct {
	db *sql.DB
}

// NewPostgreSQLWalletRepository creates a new PostgreSQL wallet repository instance.
func NewPostgreSQLWalletRepository(db *sql.DB) *PostgreSQLWalletRepository {
	return &PostgreSQLWalletRepository{db: db}
}

// Create inserts a new wallet.
func (p *PostgreSQLWalletRepository) Create(ctx context.Context, wallet *walletDomain.Wallet) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO wallets (id, owner_id, wallet_id, confidentiality_public_key, integrity_public_key,
				  encrypted_confidentiality_key, encrypted_integrity_key, encrypted_recovery_seed,
				  salt, algorithm, is_active, created_at, last_unlocked_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := querier.ExecContext(
		ctx,
		query,
		wallet.ID,
		wallet.OwnerID,
		wallet.WalletID,
		wallet.ConfidentialityPublicKey,
		wallet.IntegrityPublicKey,
		wallet.EncryptedConfidentialityKey,
		wallet.EncryptedIntegrityKey,
		wallet.EncryptedRecoverySeed,
		wallet.Salt,
		string(wallet.Algorithm),
		wallet.IsActive,
		wallet.CreatedAt,
		wallet.LastUnlockedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return walletDomain.ErrActiveWalletExists
		}
		return apperrors.Wrap(err, "failed to create wallet")
	}
	return nil
}

// GetByWalletID retrieves a wallet by its public identifier, active or not.
func (p *PostgreSQLWalletRepository) GetByWalletID(
	ctx context.Context,
	walletID string,
) (*walletDomain.Wallet, error) {
	querier := database.GetTx(ctx, p.db)

	query := walletSelectColumns + ` FROM wallets WHERE wallet_id = $1 LIMIT 1`

	return scanWallet(querier.QueryRowContext(ctx, query, walletID), "failed to get wallet by wallet_id")
}

// GetActiveByOwner retrieves the owner's active wallet.
func (p *PostgreSQLWalletRepository) GetActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) (*walletDomain.Wallet, error) {
	querier := database.GetTx(ctx, p.db)

	query := walletSelectColumns + ` FROM wallets WHERE owner_id = $1 AND is_active LIMIT 1`

	return scanWallet(querier.QueryRowContext(ctx, query, ownerID), "failed to get active wallet by owner")
}

// SetLastUnlockedAt stamps a successful unlock.
func (p *PostgreSQLWalletRepository) SetLastUnlockedAt(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE wallets SET last_unlocked_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set last_unlocked_at")
	}
	return nil
}

// Deactivate sets is_active to false.
func (p *PostgreSQLWalletRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE wallets SET is_active = FALSE WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate wallet")
	}
	return nil
}

// walletSelectColumns is the shared column list for wallet reads.
const walletSelectColumns = `SELECT id, owner_id, wallet_id, confidentiality_public_key, integrity_public_key,
	encrypted_confidentiality_key, encrypted_integrity_key, encrypted_recovery_seed,
	salt, algorithm, is_active, created_at, last_unlocked_at`

// rowScanner abstracts *sql.Row for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWallet scans a wallet row, mapping sql.ErrNoRows to ErrNotFound.
func scanWallet(row rowScanner, wrapMsg string) (*walletDomain.Wallet, error) {
	var wallet walletDomain.Wallet
	err := row.Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.WalletID,
		&wallet.ConfidentialityPublicKey,
		&wallet.IntegrityPublicKey,
		&wallet.EncryptedConfidentialityKey,
		&wallet.EncryptedIntegrityKey,
		&wallet.EncryptedRecoverySeed,
		&wallet.Salt,
		&wallet.Algorithm,
		&wallet.IsActive,
		&wallet.CreatedAt,
		&wallet.LastUnlockedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	return &wallet, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
