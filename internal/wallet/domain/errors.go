package domain

import (
	"github.com/allisson/pqvault/internal/errors"
)

// Wallet domain errors.
var (
	// ErrWalletNotFound indicates the referenced wallet does not exist or is inactive.
	ErrWalletNotFound = errors.Wrap(errors.ErrNotFound, "wallet not found")

	// ErrActiveWalletExists indicates the owner already holds an active wallet.
	ErrActiveWalletExists = errors.Wrap(errors.ErrConflict, "owner already has an active wallet")

	// ErrAuthenticationFailed indicates the password is wrong or the stored
	// ciphertext failed its integrity check. The two causes are deliberately
	// indistinguishable so the API cannot be used as a decryption oracle.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrUnauthorized, "invalid password or corrupted wallet data")

	// ErrDecryptionFailed indicates an envelope or encapsulation could not be
	// opened: wrong key material or tampered ciphertext. Same HTTP mapping as
	// ErrAuthenticationFailed for the same reason.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")

	// ErrInvalidRecoveryPhrase indicates a recovery phrase that is not 12 words
	// from the wordlist.
	ErrInvalidRecoveryPhrase = errors.Wrap(errors.ErrInvalidInput, "invalid recovery phrase")
)
