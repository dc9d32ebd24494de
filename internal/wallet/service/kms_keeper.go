package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsPrefix marks a stored ciphertext as KMS-wrapped.
const kmsPrefix = "kms:"

// OpenKMSKeeper opens a secrets.Keeper for the configured KMS provider.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKMSKeeper(ctx context.Context, keyURI string) (walletDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// AtRestWrapper applies an optional extra encryption layer to wallet
// ciphertexts before they hit storage.
type AtRestWrapper interface {
	// Wrap applies the at-rest layer to an envelope ciphertext.
	Wrap(ctx context.Context, ciphertext string) (string, error)

	// Unwrap removes the at-rest layer. Ciphertexts stored before the layer
	// was enabled pass through unchanged.
	Unwrap(ctx context.Context, ciphertext string) (string, error)
}

// KMSWrapper implements AtRestWrapper on top of a KMS keeper. Wrapped values
// carry a "kms:" prefix so mixed storage (wrapped and plain envelope
// ciphertexts) stays readable after the layer is turned on.
type KMSWrapper struct {
	keeper walletDomain.KMSKeeper
}

// NewKMSWrapper creates an AtRestWrapper backed by the keeper.
func NewKMSWrapper(keeper walletDomain.KMSKeeper) *KMSWrapper {
	return &KMSWrapper{keeper: keeper}
}

// Wrap encrypts the envelope ciphertext with the KMS key.
func (w *KMSWrapper) Wrap(ctx context.Context, ciphertext string) (string, error) {
	wrapped, err := w.keeper.Encrypt(ctx, []byte(ciphertext))
	if err != nil {
		return "", fmt.Errorf("failed to wrap ciphertext with KMS: %w", err)
	}
	return kmsPrefix + base64.RawURLEncoding.EncodeToString(wrapped), nil
}

// Unwrap decrypts a KMS-wrapped ciphertext. Unwrapped values pass through.
func (w *KMSWrapper) Unwrap(ctx context.Context, ciphertext string) (string, error) {
	encoded, ok := strings.CutPrefix(ciphertext, kmsPrefix)
	if !ok {
		return ciphertext, nil
	}

	wrapped, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode KMS-wrapped ciphertext: %w", err)
	}

	plain, err := w.keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return "", fmt.Errorf("failed to unwrap ciphertext with KMS: %w", err)
	}
	return string(plain), nil
}

// NoopWrapper implements AtRestWrapper without a KMS layer. Used when no
// KMS key URI is configured.
type NoopWrapper struct{}

// NewNoopWrapper creates a pass-through AtRestWrapper.
func NewNoopWrapper() *NoopWrapper {
	return &NoopWrapper{}
}

// Wrap returns the ciphertext unchanged.
func (w *NoopWrapper) Wrap(_ context.Context, ciphertext string) (string, error) {
	return ciphertext, nil
}

// Unwrap returns the ciphertext unchanged unless it carries the KMS prefix,
// which means the layer was enabled when the value was stored.
func (w *NoopWrapper) Unwrap(_ context.Context, ciphertext string) (string, error) {
	if strings.HasPrefix(ciphertext, kmsPrefix) {
		return "", fmt.Errorf("ciphertext is KMS-wrapped but no KMS key is configured")
	}
	return ciphertext, nil
}
