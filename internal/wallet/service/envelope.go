package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// envelopeVersion prefixes every sealed blob so the format can evolve.
const envelopeVersion = "v1"

// EnvelopeService implements EnvelopeCipher on top of an AEAD algorithm.
//
// Sealed output has the form "v1:<base64url(nonce || ciphertext)>", which is
// safe for storage in a text column and for transport in JSON, and round-trips
// unmodified. Open reports every failure — wrong key, truncated blob, flipped
// bit — as walletDomain.ErrDecryptionFailed without distinguishing the cause.
type EnvelopeService struct {
	alg walletDomain.Algorithm
}

// NewEnvelopeService creates an EnvelopeCipher using the given AEAD algorithm.
func NewEnvelopeService(alg walletDomain.Algorithm) *EnvelopeService {
	return &EnvelopeService{alg: alg}
}

// Algorithm reports the configured AEAD algorithm.
func (e *EnvelopeService) Algorithm() walletDomain.Algorithm {
	return e.alg
}

// newAEAD builds the AEAD instance for the configured algorithm.
func (e *EnvelopeService) newAEAD(key []byte) (AEAD, error) {
	if len(key) != walletDomain.KeySize {
		return nil, fmt.Errorf("envelope key must be %d bytes, got %d", walletDomain.KeySize, len(key))
	}

	switch e.alg {
	case walletDomain.AESGCM:
		return NewAESGCM(key)
	case walletDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", e.alg)
	}
}

// Seal encrypts plaintext under key and returns the opaque ciphertext string.
func (e *EnvelopeService) Seal(plaintext, key []byte) (string, error) {
	aead, err := e.newAEAD(key)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return envelopeVersion + ":" + base64.RawURLEncoding.EncodeToString(blob), nil
}

// Open decrypts a sealed blob. A wrong key and a corrupted blob are
// indistinguishable by design: both return ErrDecryptionFailed.
func (e *EnvelopeService) Open(ciphertext string, key []byte) ([]byte, error) {
	aead, err := e.newAEAD(key)
	if err != nil {
		return nil, err
	}

	version, payload, found := strings.Cut(ciphertext, ":")
	if !found || version != envelopeVersion {
		return nil, walletDomain.ErrDecryptionFailed
	}

	blob, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}

	// Both supported AEADs use a 12-byte nonce.
	const nonceSize = 12
	if len(blob) < nonceSize {
		return nil, walletDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Decrypt(blob[nonceSize:], blob[:nonceSize], nil)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
