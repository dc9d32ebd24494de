package service

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"golang.org/x/crypto/hkdf"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// Domain separation strings for HKDF derivations.
const (
	kemSharedKeyContext = "pqvault/kem-shared-key/v1"
	kemKeypairContext   = "pqvault/kem-keypair-seed/v1"
	sigKeypairContext   = "pqvault/sig-keypair-seed/v1"
)

// LatticeKeyPairFactory implements KeyPairFactory with ML-KEM-768 for the
// confidentiality role and ML-DSA-65 for the integrity role.
//
// Encapsulation is hybrid: a fresh KEM shared secret is stretched through
// HKDF-SHA-512 into an envelope key that seals the actual payload, so payload
// size is not bounded by the KEM. The KEM ciphertext feeds the HKDF salt,
// binding the envelope key to the specific encapsulation.
type LatticeKeyPairFactory struct {
	kemScheme kem.Scheme
	sigScheme sign.Scheme
	envelope  EnvelopeCipher
}

// NewLatticeKeyPairFactory creates a KeyPairFactory backed by ML-KEM-768 and
// ML-DSA-65. The envelope cipher seals encapsulated payloads.
func NewLatticeKeyPairFactory(envelope EnvelopeCipher) *LatticeKeyPairFactory {
	return &LatticeKeyPairFactory{
		kemScheme: mlkem768.Scheme(),
		sigScheme: mldsa65.Scheme(),
		envelope:  envelope,
	}
}

// GenerateConfidentialityPair returns a fresh ML-KEM-768 keypair.
func (f *LatticeKeyPairFactory) GenerateConfidentialityPair() (publicKey, privateKey []byte, err error) {
	pub, priv, err := f.kemScheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate confidentiality keypair: %w", err)
	}
	return marshalPair(pub, priv)
}

// GenerateIntegrityPair returns a fresh ML-DSA-65 keypair.
func (f *LatticeKeyPairFactory) GenerateIntegrityPair() (publicKey, privateKey []byte, err error) {
	pub, priv, err := f.sigScheme.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate integrity keypair: %w", err)
	}
	return marshalPair(pub, priv)
}

// DeriveConfidentialityPair derives an ML-KEM-768 keypair deterministically
// from arbitrary-length seed material. The material is expanded to the scheme's
// seed size with HKDF under a role-specific context, so the confidentiality and
// integrity pairs derived from the same material remain independent.
func (f *LatticeKeyPairFactory) DeriveConfidentialityPair(seed []byte) (publicKey, privateKey []byte, err error) {
	schemeSeed, err := expandSeed(seed, kemKeypairContext, f.kemScheme.SeedSize())
	if err != nil {
		return nil, nil, err
	}
	defer walletDomain.Zero(schemeSeed)

	pub, priv := f.kemScheme.DeriveKeyPair(schemeSeed)
	return marshalPair(pub, priv)
}

// DeriveIntegrityPair derives an ML-DSA-65 keypair deterministically from
// arbitrary-length seed material.
func (f *LatticeKeyPairFactory) DeriveIntegrityPair(seed []byte) (publicKey, privateKey []byte, err error) {
	schemeSeed, err := expandSeed(seed, sigKeypairContext, f.sigScheme.SeedSize())
	if err != nil {
		return nil, nil, err
	}
	defer walletDomain.Zero(schemeSeed)

	pub, priv := f.sigScheme.DeriveKey(schemeSeed)
	return marshalPair(pub, priv)
}

// Sign signs a message with the ML-DSA-65 private key.
func (f *LatticeKeyPairFactory) Sign(message, privateKey []byte) ([]byte, error) {
	sk, err := f.sigScheme.UnmarshalBinaryPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse integrity private key: %w", err)
	}

	return f.sigScheme.Sign(sk, message, nil), nil
}

// Verify reports whether the signature matches the message under the public
// key. Malformed keys or signatures are a normal false result, never a fault.
func (f *LatticeKeyPairFactory) Verify(message, signature, publicKey []byte) bool {
	pk, err := f.sigScheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return false
	}

	return f.sigScheme.Verify(pk, message, signature, nil)
}

// Encapsulate hybrid-encrypts plaintext for the holder of the confidentiality
// private key. The returned package carries the KEM ciphertext and the sealed
// payload, both text-safe.
func (f *LatticeKeyPairFactory) Encapsulate(
	plaintext, publicKey []byte,
) (*walletDomain.EncryptedPackage, error) {
	pk, err := f.kemScheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confidentiality public key: %w", err)
	}

	kemCiphertext, sharedSecret, err := f.kemScheme.Encapsulate(pk)
	if err != nil {
		return nil, fmt.Errorf("failed to encapsulate: %w", err)
	}
	defer walletDomain.Zero(sharedSecret)

	key, err := deriveSharedKey(sharedSecret, kemCiphertext)
	if err != nil {
		return nil, err
	}
	defer walletDomain.Zero(key)

	sealed, err := f.envelope.Seal(plaintext, key)
	if err != nil {
		return nil, err
	}

	return &walletDomain.EncryptedPackage{
		KEMCiphertext: base64.RawURLEncoding.EncodeToString(kemCiphertext),
		Ciphertext:    sealed,
	}, nil
}

// Decapsulate reverses Encapsulate. Any failure (malformed package, wrong
// private key, tampered payload) is reported as ErrDecryptionFailed.
func (f *LatticeKeyPairFactory) Decapsulate(
	pkg *walletDomain.EncryptedPackage,
	privateKey []byte,
) ([]byte, error) {
	kemCiphertext, err := base64.RawURLEncoding.DecodeString(pkg.KEMCiphertext)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}

	sk, err := f.kemScheme.UnmarshalBinaryPrivateKey(privateKey)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}

	// ML-KEM uses implicit rejection: a wrong key still yields a shared secret,
	// but one that fails the envelope's authentication below.
	sharedSecret, err := f.kemScheme.Decapsulate(sk, kemCiphertext)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}
	defer walletDomain.Zero(sharedSecret)

	key, err := deriveSharedKey(sharedSecret, kemCiphertext)
	if err != nil {
		return nil, walletDomain.ErrDecryptionFailed
	}
	defer walletDomain.Zero(key)

	return f.envelope.Open(pkg.Ciphertext, key)
}

// deriveSharedKey stretches a KEM shared secret into an envelope key using
// HKDF-SHA-512 with the KEM ciphertext hash as salt.
func deriveSharedKey(sharedSecret, kemCiphertext []byte) ([]byte, error) {
	salt := sha256.Sum256(kemCiphertext)

	reader := hkdf.New(sha512.New, sharedSecret, salt[:], []byte(kemSharedKeyContext))
	key := make([]byte, walletDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive shared key: %w", err)
	}

	return key, nil
}

// expandSeed derives scheme seed material of the requested size from
// arbitrary-length input under a context string.
func expandSeed(seed []byte, context string, size int) ([]byte, error) {
	reader := hkdf.New(sha512.New, seed, nil, []byte(context))
	out := make([]byte, size)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("failed to expand keypair seed: %w", err)
	}
	return out, nil
}

// marshalPair renders a scheme keypair as raw bytes.
func marshalPair(
	pub interface{ MarshalBinary() ([]byte, error) },
	priv interface{ MarshalBinary() ([]byte, error) },
) (publicKey, privateKey []byte, err error) {
	publicKey, err = pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	privateKey, err = priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return publicKey, privateKey, nil
}
