// Package service provides the cryptographic services behind the wallet
// lifecycle: password key derivation, envelope encryption, lattice keypair
// generation with signing and encapsulation, and the recovery phrase codec.
package service

import (
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// KeyDeriver stretches a low-entropy password into a fixed-length encryption key.
type KeyDeriver interface {
	// DeriveKey derives a 32-byte key from the password and salt. Deterministic:
	// identical inputs always yield the identical key. Empty passwords are
	// permitted; password policy belongs to the boundary layer.
	DeriveKey(password string, salt []byte) []byte
}

// EnvelopeCipher seals byte payloads into opaque, text-safe ciphertext strings
// and opens them again. Open fails with ErrDecryptionFailed when the key is
// wrong or the ciphertext was corrupted; the two cases are indistinguishable.
type EnvelopeCipher interface {
	Seal(plaintext, key []byte) (string, error)
	Open(ciphertext string, key []byte) ([]byte, error)

	// Algorithm reports the AEAD algorithm the cipher seals with, for
	// persistence alongside the ciphertexts it produces.
	Algorithm() walletDomain.Algorithm
}

// KeyPairFactory generates and operates the two asymmetric roles of a wallet:
// a confidentiality pair (key encapsulation) and an integrity pair (signing).
// The two roles always use independently generated material.
type KeyPairFactory interface {
	// GenerateConfidentialityPair returns a fresh ML-KEM-768 keypair as raw bytes.
	GenerateConfidentialityPair() (publicKey, privateKey []byte, err error)

	// GenerateIntegrityPair returns a fresh ML-DSA-65 keypair as raw bytes.
	GenerateIntegrityPair() (publicKey, privateKey []byte, err error)

	// DeriveConfidentialityPair derives an ML-KEM-768 keypair deterministically
	// from seed material. Used by wallet recovery so the same recovery inputs
	// always rebuild the same identity.
	DeriveConfidentialityPair(seed []byte) (publicKey, privateKey []byte, err error)

	// DeriveIntegrityPair derives an ML-DSA-65 keypair deterministically from
	// seed material.
	DeriveIntegrityPair(seed []byte) (publicKey, privateKey []byte, err error)

	// Sign signs a message with the integrity private key.
	Sign(message, privateKey []byte) ([]byte, error)

	// Verify reports whether the signature matches the message under the
	// integrity public key. Never returns an error: an invalid signature is a
	// normal false result.
	Verify(message, signature, publicKey []byte) bool

	// Encapsulate hybrid-encrypts a payload of any size for the holder of the
	// confidentiality private key.
	Encapsulate(plaintext, publicKey []byte) (*walletDomain.EncryptedPackage, error)

	// Decapsulate reverses Encapsulate. Fails with ErrDecryptionFailed on a
	// wrong key or a corrupted package.
	Decapsulate(pkg *walletDomain.EncryptedPackage, privateKey []byte) ([]byte, error)
}

// RecoveryCodec converts a recovery seed to and from its human-writable forms.
type RecoveryCodec interface {
	// EncodePhrase renders the seed as a 12-word phrase. Pure and deterministic;
	// uses only the first 24 bytes of the seed.
	EncodePhrase(seed []byte) (string, error)

	// PhraseToSeed reconstructs seed material from a phrase. This is a one-way
	// hash-based path, not an inverse of EncodePhrase: the resulting seed is
	// independent of the one originally encoded.
	PhraseToSeed(phrase string) []byte

	// ValidatePhrase checks that the phrase is 12 words from the wordlist.
	ValidatePhrase(phrase string) error

	// DeriveSalt derives the KDF salt from the seed.
	DeriveSalt(seed []byte) ([]byte, error)
}
