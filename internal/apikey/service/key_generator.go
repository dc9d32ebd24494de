// Package service provides the API key value generator.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/allisson/pqvault/internal/apikey/domain"
	apperrors "github.com/allisson/pqvault/internal/errors"
)

// keyRandomSize is the entropy drawn per key in bytes.
const keyRandomSize = 32

// keyHexLen is the number of hex characters kept after the prefix.
const keyHexLen = 48

// KeyGenerator defines the operation for producing API key values.
// Implementations must draw from a cryptographically secure random source;
// uniqueness is probabilistic and not re-checked against existing keys.
type KeyGenerator interface {
	// GenerateKey creates a new key value with the service prefix.
	GenerateKey() (string, error)
}

// randomKeyGenerator implements KeyGenerator over crypto/rand.
type randomKeyGenerator struct{}

// NewKeyGenerator creates a new KeyGenerator instance.
func NewKeyGenerator() KeyGenerator {
	return &randomKeyGenerator{}
}

// GenerateKey draws 32 random bytes, hashes them and renders the key as the
// service prefix plus 48 hex characters. Hashing decouples the stored value
// from raw generator output.
func (g *randomKeyGenerator) GenerateKey() (string, error) {
	randomBytes := make([]byte, keyRandomSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random key material")
	}

	digest := sha256.Sum256(randomBytes)
	return domain.KeyPrefix + hex.EncodeToString(digest[:])[:keyHexLen], nil
}
