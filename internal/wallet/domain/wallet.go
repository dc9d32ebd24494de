package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet represents a user's cryptographic identity.
//
// The record stores public key material in the clear and private key material
// only as envelope ciphertexts produced under a password-derived key. The salt
// is persisted in the clear: it is fixed at creation, required for every future
// unlock, and losing it means permanent loss of access.
type Wallet struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	// WalletID is the stable public identifier, derived from the
	// confidentiality public key. Safe to share and log.
	WalletID string

	// ConfidentialityPublicKey is the ML-KEM-768 public key (encapsulation role).
	ConfidentialityPublicKey []byte
	// IntegrityPublicKey is the ML-DSA-65 public key (signing role).
	IntegrityPublicKey []byte

	// EncryptedConfidentialityKey, EncryptedIntegrityKey and
	// EncryptedRecoverySeed are opaque envelope ciphertexts. They are never
	// stored or logged in plaintext and never returned by read operations.
	EncryptedConfidentialityKey string
	EncryptedIntegrityKey       string
	EncryptedRecoverySeed       string

	// Salt feeds the password KDF. Fixed at creation.
	Salt []byte

	// Algorithm is the AEAD algorithm the envelope ciphertexts were sealed
	// with. Fixed at creation; unlocking must use the same algorithm.
	Algorithm Algorithm

	IsActive       bool
	CreatedAt      time.Time
	LastUnlockedAt *time.Time
}

// UnlockedKeys holds decrypted private key material. It exists only for the
// duration of a single operation; callers must invoke Zero when done.
type UnlockedKeys struct {
	ConfidentialityPrivateKey []byte
	IntegrityPrivateKey       []byte
}

// Zero wipes the private key material.
func (u *UnlockedKeys) Zero() {
	Zero(u.ConfidentialityPrivateKey)
	Zero(u.IntegrityPrivateKey)
}

// EncryptedPackage is the wire form of a hybrid encryption: the KEM ciphertext
// protects a one-time symmetric key, and the sealed payload carries the data
// encrypted under it. Both fields are text-safe (base64url / envelope format)
// and round-trip through JSON unmodified.
type EncryptedPackage struct {
	KEMCiphertext string `json:"kem_ciphertext"`
	Ciphertext    string `json:"ciphertext"`
}

// CreateWalletInput contains the parameters for creating a wallet.
type CreateWalletInput struct {
	OwnerID  uuid.UUID
	Password string
}

// CreateWalletOutput is returned exactly once, at creation. The recovery
// phrase is not reconstructible from persisted state afterwards.
type CreateWalletOutput struct {
	Wallet         *Wallet
	RecoveryPhrase string
}

// RecoverWalletInput contains the parameters for recovering a wallet from a
// recovery phrase. The resulting identity is derived from the phrase and the
// new password; it is independent of the originally issued keys.
type RecoverWalletInput struct {
	OwnerID        uuid.UUID
	RecoveryPhrase string
	Password       string
}
