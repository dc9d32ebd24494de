// Package usecase implements the wallet lifecycle: creation with one-time
// recovery phrase disclosure, password-gated unlock, signing, verification,
// hybrid encryption between wallets, revocation, and phrase-based recovery.
package usecase

import (
	"context"

	"github.com/google/uuid"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// WalletRepository defines the interface for wallet persistence operations.
type WalletRepository interface {
	// Create inserts a new wallet. Fails with ErrActiveWalletExists when the
	// owner already holds an active wallet (unique index scoped to active rows).
	Create(ctx context.Context, wallet *walletDomain.Wallet) error

	// GetByWalletID retrieves a wallet by its public identifier, active or not.
	GetByWalletID(ctx context.Context, walletID string) (*walletDomain.Wallet, error)

	// GetActiveByOwner retrieves the owner's active wallet.
	GetActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*walletDomain.Wallet, error)

	// SetLastUnlockedAt stamps a successful unlock.
	SetLastUnlockedAt(ctx context.Context, id uuid.UUID) error

	// Deactivate sets is_active to false. Deactivating an inactive wallet is
	// a no-op, not an error.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// WalletUseCase defines the interface for wallet lifecycle business logic.
type WalletUseCase interface {
	// Create generates a wallet for the owner. The recovery phrase in the
	// output is disclosed exactly once and is not reconstructible from
	// persisted state. Fails with ErrActiveWalletExists when the owner
	// already holds an active wallet.
	Create(ctx context.Context, input *walletDomain.CreateWalletInput) (*walletDomain.CreateWalletOutput, error)

	// Get retrieves a wallet by its public identifier. Fails with
	// ErrWalletNotFound when absent or inactive.
	Get(ctx context.Context, walletID string) (*walletDomain.Wallet, error)

	// Unlock decrypts the wallet's private key material and stamps
	// last_unlocked_at. Fails with ErrAuthenticationFailed on a wrong password
	// or corrupted ciphertext; a failed unlock never touches the stamp.
	//
	// Callers MUST zero the returned material via UnlockedKeys.Zero when done.
	Unlock(ctx context.Context, walletID, password string) (*walletDomain.UnlockedKeys, error)

	// Sign authenticates with the password and signs the message with the
	// wallet's integrity key.
	Sign(ctx context.Context, walletID, password string, message []byte) ([]byte, error)

	// Verify checks a signature against the wallet's integrity public key.
	// Public operation: no password required. An invalid signature is a
	// normal false result.
	Verify(ctx context.Context, walletID string, message, signature []byte) (bool, error)

	// EncryptFor authenticates the sender and hybrid-encrypts the message for
	// the recipient wallet. Fails with ErrAuthenticationFailed on a bad sender
	// password and ErrWalletNotFound when either wallet is absent or inactive.
	EncryptFor(ctx context.Context, senderWalletID, senderPassword, recipientWalletID string, message []byte) (*walletDomain.EncryptedPackage, error)

	// DecryptFrom authenticates with the password and decrypts a package
	// addressed to the wallet.
	DecryptFrom(ctx context.Context, walletID, password string, pkg *walletDomain.EncryptedPackage) ([]byte, error)

	// Revoke deactivates the wallet. Idempotent: revoking an already revoked
	// wallet is a no-op.
	Revoke(ctx context.Context, walletID string) error

	// Recover issues a fresh identity derived deterministically from the
	// recovery phrase and the new password, replacing the owner's active
	// wallet in the same transaction. The original keys are not restored.
	Recover(ctx context.Context, input *walletDomain.RecoverWalletInput) (*walletDomain.Wallet, error)
}
