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

// MySQLWalletRepository implements wallet persistence for MySQL databases.
type MySQLWalletRepository struct {
	db *sql.DB
}

// NewMySQLWalletRepository creates a new MySQL wallet repository instance.
func NewMySQLWalletRepository(db *sql.DB) *MySQLWalletRepository {
	return &MySQLWalletRepository{db: db}
}

// Create inserts a new wallet.
func (m *MySQLWalletRepository) Create(ctx context.Context, wallet *walletDomain.Wallet) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO wallets (id, owner_id, wallet_id, confidentiality_public_key, integrity_public_key,
				  encrypted_confidentiality_key, encrypted_integrity_key, encrypted_recovery_seed,
				  salt, algorithm, is_active, created_at, last_unlocked_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := wallet.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerIDBytes, err := wallet.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		ownerIDBytes,
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
		if isMySQLUniqueViolation(err) {
			return walletDomain.ErrActiveWalletExists
		}
		return apperrors.Wrap(err, "failed to create wallet")
	}
	return nil
}

// GetByWalletID retrieves a wallet by its public identifier, active or not.
func (m *MySQLWalletRepository) GetByWalletID(
	ctx context.Context,
	walletID string,
) (*walletDomain.Wallet, error) {
	querier := database.GetTx(ctx, m.db)

	query := walletSelectColumns + ` FROM wallets WHERE wallet_id = ? LIMIT 1`

	return scanMySQLWallet(querier.QueryRowContext(ctx, query, walletID), "failed to get wallet by wallet_id")
}

// GetActiveByOwner retrieves the owner's active wallet.
func (m *MySQLWalletRepository) GetActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) (*walletDomain.Wallet, error) {
	querier := database.GetTx(ctx, m.db)

	ownerIDBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := walletSelectColumns + ` FROM wallets WHERE owner_id = ? AND is_active LIMIT 1`

	return scanMySQLWallet(querier.QueryRowContext(ctx, query, ownerIDBytes), "failed to get active wallet by owner")
}

// SetLastUnlockedAt stamps a successful unlock.
func (m *MySQLWalletRepository) SetLastUnlockedAt(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE wallets SET last_unlocked_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, time.Now().UTC(), idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to set last_unlocked_at")
	}
	return nil
}

// Deactivate sets is_active to false.
func (m *MySQLWalletRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE wallets SET is_active = FALSE WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate wallet")
	}
	return nil
}

// scanMySQLWallet scans a wallet row, converting BINARY(16) UUID columns.
func scanMySQLWallet(row rowScanner, wrapMsg string) (*walletDomain.Wallet, error) {
	var wallet walletDomain.Wallet
	var idBytes, ownerIDBytes []byte

	err := row.Scan(
		&idBytes,
		&ownerIDBytes,
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

	if err := wallet.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := wallet.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &wallet, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
