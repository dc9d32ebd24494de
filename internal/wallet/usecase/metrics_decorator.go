package usecase

import (
	"context"
	"time"

	"github.com/allisson/pqvault/internal/metrics"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// walletUseCaseWithMetrics decorates WalletUseCase with metrics instrumentation.
type walletUseCaseWithMetrics struct {
	next    WalletUseCase
	metrics metrics.BusinessMetrics
}

// NewWalletUseCaseWithMetrics wraps a WalletUseCase with metrics recording.
func NewWalletUseCaseWithMetrics(useCase WalletUseCase, m metrics.BusinessMetrics) WalletUseCase {
	return &walletUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration for a wallet operation.
func (w *walletUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "wallet", operation, status)
	w.metrics.RecordDuration(ctx, "wallet", operation, time.Since(start), status)
}

// Create records metrics for wallet creation operations.
func (w *walletUseCaseWithMetrics) Create(
	ctx context.Context,
	input *walletDomain.CreateWalletInput,
) (*walletDomain.CreateWalletOutput, error) {
	start := time.Now()
	output, err := w.next.Create(ctx, input)
	w.record(ctx, "wallet_create", start, err)
	return output, err
}

// Get records metrics for wallet retrieval operations.
func (w *walletUseCaseWithMetrics) Get(
	ctx context.Context,
	walletID string,
) (*walletDomain.Wallet, error) {
	start := time.Now()
	wallet, err := w.next.Get(ctx, walletID)
	w.record(ctx, "wallet_get", start, err)
	return wallet, err
}

// Unlock records metrics for wallet unlock operations.
func (w *walletUseCaseWithMetrics) Unlock(
	ctx context.Context,
	walletID, password string,
) (*walletDomain.UnlockedKeys, error) {
	start := time.Now()
	keys, err := w.next.Unlock(ctx, walletID, password)
	w.record(ctx, "wallet_unlock", start, err)
	return keys, err
}

// Sign records metrics for signing operations.
func (w *walletUseCaseWithMetrics) Sign(
	ctx context.Context,
	walletID, password string,
	message []byte,
) ([]byte, error) {
	start := time.Now()
	signature, err := w.next.Sign(ctx, walletID, password, message)
	w.record(ctx, "wallet_sign", start, err)
	return signature, err
}

// Verify records metrics for verification operations.
func (w *walletUseCaseWithMetrics) Verify(
	ctx context.Context,
	walletID string,
	message, signature []byte,
) (bool, error) {
	start := time.Now()
	valid, err := w.next.Verify(ctx, walletID, message, signature)
	w.record(ctx, "wallet_verify", start, err)
	return valid, err
}

// EncryptFor records metrics for hybrid encryption operations.
func (w *walletUseCaseWithMetrics) EncryptFor(
	ctx context.Context,
	senderWalletID, senderPassword, recipientWalletID string,
	message []byte,
) (*walletDomain.EncryptedPackage, error) {
	start := time.Now()
	pkg, err := w.next.EncryptFor(ctx, senderWalletID, senderPassword, recipientWalletID, message)
	w.record(ctx, "wallet_encrypt_for", start, err)
	return pkg, err
}

// DecryptFrom records metrics for hybrid decryption operations.
func (w *walletUseCaseWithMetrics) DecryptFrom(
	ctx context.Context,
	walletID, password string,
	pkg *walletDomain.EncryptedPackage,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := w.next.DecryptFrom(ctx, walletID, password, pkg)
	w.record(ctx, "wallet_decrypt_from", start, err)
	return plaintext, err
}

// Revoke records metrics for wallet revocation operations.
func (w *walletUseCaseWithMetrics) Revoke(ctx context.Context, walletID string) error {
	start := time.Now()
	err := w.next.Revoke(ctx, walletID)
	w.record(ctx, "wallet_revoke", start, err)
	return err
}

// Recover records metrics for wallet recovery operations.
func (w *walletUseCaseWithMetrics) Recover(
	ctx context.Context,
	input *walletDomain.RecoverWalletInput,
) (*walletDomain.Wallet, error) {
	start := time.Now()
	wallet, err := w.next.Recover(ctx, input)
	w.record(ctx, "wallet_recover", start, err)
	return wallet, err
}
