package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// PBKDF2Deriver implements KeyDeriver using PBKDF2-HMAC-SHA256.
//
// The iteration count is deliberately high so that deriving a key from a
// candidate password costs tens of milliseconds on commodity hardware, slowing
// offline guessing against a stolen wallet record. The function is
// deterministic, which unlock depends on: the exact key used at creation must
// be re-derivable from (password, salt) alone.
type PBKDF2Deriver struct {
	iterations int
}

// DefaultKDFIterations is the production PBKDF2 iteration count.
const DefaultKDFIterations = 100000

// NewPBKDF2Deriver creates a KeyDeriver with the given iteration count.
// Counts below 1 fall back to DefaultKDFIterations.
func NewPBKDF2Deriver(iterations int) *PBKDF2Deriver {
	if iterations < 1 {
		iterations = DefaultKDFIterations
	}
	return &PBKDF2Deriver{iterations: iterations}
}

// DeriveKey derives a 32-byte encryption key from the password and salt.
// Malformed input (empty password, short salt) is permitted and simply yields
// a key; minimum password strength is enforced at the boundary layer.
func (d *PBKDF2Deriver) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, d.iterations, walletDomain.KeySize, sha256.New)
}
