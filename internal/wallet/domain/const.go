// Package domain defines wallet domain models: the wallet record, unlocked key
// material, encrypted packages, and the wallet error taxonomy.
package domain

// Algorithm represents the AEAD algorithm used for envelope encryption.
//
// Both options provide authenticated encryption with a 256-bit key, 12-byte
// nonce, and 16-byte tag. AESGCM is preferred on CPUs with AES-NI; ChaCha20
// performs better in pure software.
type Algorithm string

const (
	// AESGCM is AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// SeedSize is the size of a wallet recovery seed in bytes.
	SeedSize = 32

	// SaltSize is the size of the KDF salt, taken from the head of the seed.
	SaltSize = 16

	// KeySize is the size of a derived envelope encryption key in bytes.
	KeySize = 32

	// PhraseWordCount is the number of words in a recovery phrase.
	PhraseWordCount = 12

	// WalletIDLength is the length of the derived public wallet identifier.
	WalletIDLength = 16
)
