package usecase

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/pqvault/internal/database"
	apperrors "github.com/allisson/pqvault/internal/errors"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
	walletService "github.com/allisson/pqvault/internal/wallet/service"
)

// walletUseCase implements the WalletUseCase interface.
type walletUseCase struct {
	txManager      database.TxManager
	walletRepo     WalletRepository
	keyDeriver     walletService.KeyDeriver
	envelope       walletService.EnvelopeCipher
	keyPairFactory walletService.KeyPairFactory
	recoveryCodec  walletService.RecoveryCodec
	atRestWrapper  walletService.AtRestWrapper
}

// Create generates a new wallet for the owner.
func (w *walletUseCase) Create(
	ctx context.Context,
	input *walletDomain.CreateWalletInput,
) (*walletDomain.CreateWalletOutput, error) {
	// Friendly conflict check; the partial unique index on active wallets is
	// the authoritative guard against concurrent creates.
	if _, err := w.walletRepo.GetActiveByOwner(ctx, input.OwnerID); err == nil {
		return nil, walletDomain.ErrActiveWalletExists
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	seed := make([]byte, walletDomain.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate recovery seed")
	}
	defer walletDomain.Zero(seed)

	phrase, err := w.recoveryCodec.EncodePhrase(seed)
	if err != nil {
		return nil, err
	}

	salt, err := w.recoveryCodec.DeriveSalt(seed)
	if err != nil {
		return nil, err
	}

	key := w.keyDeriver.DeriveKey(input.Password, salt)
	defer walletDomain.Zero(key)

	confidentialityPub, confidentialityPriv, err := w.keyPairFactory.GenerateConfidentialityPair()
	if err != nil {
		return nil, err
	}
	defer walletDomain.Zero(confidentialityPriv)

	integrityPub, integrityPriv, err := w.keyPairFactory.GenerateIntegrityPair()
	if err != nil {
		return nil, err
	}
	defer walletDomain.Zero(integrityPriv)

	encryptedConfidentialityKey, err := w.sealAtRest(ctx, confidentialityPriv, key)
	if err != nil {
		return nil, err
	}
	encryptedIntegrityKey, err := w.sealAtRest(ctx, integrityPriv, key)
	if err != nil {
		return nil, err
	}
	encryptedRecoverySeed, err := w.sealAtRest(ctx, seed, key)
	if err != nil {
		return nil, err
	}

	wallet := &walletDomain.Wallet{
		ID:                          uuid.Must(uuid.NewV7()),
		OwnerID:                     input.OwnerID,
		WalletID:                    walletService.DeriveWalletID(confidentialityPub),
		ConfidentialityPublicKey:    confidentialityPub,
		IntegrityPublicKey:          integrityPub,
		EncryptedConfidentialityKey: encryptedConfidentialityKey,
		EncryptedIntegrityKey:       encryptedIntegrityKey,
		EncryptedRecoverySeed:       encryptedRecoverySeed,
		Salt:                        salt,
		Algorithm:                   w.envelope.Algorithm(),
		IsActive:                    true,
		CreatedAt:                   time.Now().UTC(),
	}

	if err := w.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return &walletDomain.CreateWalletOutput{
		Wallet:         wallet,
		RecoveryPhrase: phrase,
	}, nil
}

// Get retrieves an active wallet by its public identifier.
func (w *walletUseCase) Get(ctx context.Context, walletID string) (*walletDomain.Wallet, error) {
	return w.getActiveWallet(ctx, walletID)
}

// Unlock decrypts the wallet's private key material and stamps last_unlocked_at.
func (w *walletUseCase) Unlock(
	ctx context.Context,
	walletID, password string,
) (*walletDomain.UnlockedKeys, error) {
	wallet, err := w.getActiveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	keys, err := w.unlock(ctx, wallet, password)
	if err != nil {
		return nil, err
	}

	if err := w.walletRepo.SetLastUnlockedAt(ctx, wallet.ID); err != nil {
		keys.Zero()
		return nil, err
	}

	return keys, nil
}

// Sign authenticates with the password and signs the message.
func (w *walletUseCase) Sign(
	ctx context.Context,
	walletID, password string,
	message []byte,
) ([]byte, error) {
	keys, err := w.Unlock(ctx, walletID, password)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	return w.keyPairFactory.Sign(message, keys.IntegrityPrivateKey)
}

// Verify checks a signature against the wallet's integrity public key.
func (w *walletUseCase) Verify(
	ctx context.Context,
	walletID string,
	message, signature []byte,
) (bool, error) {
	wallet, err := w.getActiveWallet(ctx, walletID)
	if err != nil {
		return false, err
	}

	return w.keyPairFactory.Verify(message, signature, wallet.IntegrityPublicKey), nil
}

// EncryptFor authenticates the sender and encrypts the message for the recipient.
func (w *walletUseCase) EncryptFor(
	ctx context.Context,
	senderWalletID, senderPassword, recipientWalletID string,
	message []byte,
) (*walletDomain.EncryptedPackage, error) {
	// Both wallets must exist and be active before the sender is authenticated.
	if _, err := w.getActiveWallet(ctx, senderWalletID); err != nil {
		return nil, err
	}
	recipient, err := w.getActiveWallet(ctx, recipientWalletID)
	if err != nil {
		return nil, err
	}

	// The sender's password is not cryptographically necessary here; the check
	// binds an audit trail of who encrypted to the action.
	keys, err := w.Unlock(ctx, senderWalletID, senderPassword)
	if err != nil {
		return nil, err
	}
	keys.Zero()

	return w.keyPairFactory.Encapsulate(message, recipient.ConfidentialityPublicKey)
}

// DecryptFrom authenticates with the password and decrypts a package.
func (w *walletUseCase) DecryptFrom(
	ctx context.Context,
	walletID, password string,
	pkg *walletDomain.EncryptedPackage,
) ([]byte, error) {
	keys, err := w.Unlock(ctx, walletID, password)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	return w.keyPairFactory.Decapsulate(pkg, keys.ConfidentialityPrivateKey)
}

// Revoke deactivates the wallet. Idempotent.
func (w *walletUseCase) Revoke(ctx context.Context, walletID string) error {
	wallet, err := w.walletRepo.GetByWalletID(ctx, walletID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return walletDomain.ErrWalletNotFound
		}
		return err
	}

	if !wallet.IsActive {
		return nil
	}

	return w.walletRepo.Deactivate(ctx, wallet.ID)
}

// Recover issues a fresh identity from the recovery phrase and new password,
// replacing the owner's active wallet.
func (w *walletUseCase) Recover(
	ctx context.Context,
	input *walletDomain.RecoverWalletInput,
) (*walletDomain.Wallet, error) {
	if err := w.recoveryCodec.ValidatePhrase(input.RecoveryPhrase); err != nil {
		return nil, err
	}

	// The phrase encoding is lossy, so the original keys cannot be rebuilt.
	// Instead the phrase hash seeds a deterministic re-derivation: the same
	// (phrase, password) always recovers the same identity.
	seed := w.recoveryCodec.PhraseToSeed(input.RecoveryPhrase)
	defer walletDomain.Zero(seed)

	salt, err := w.recoveryCodec.DeriveSalt(seed)
	if err != nil {
		return nil, err
	}

	key := w.keyDeriver.DeriveKey(input.Password, salt)
	defer walletDomain.Zero(key)

	ikm := make([]byte, 0, len(seed)+len(key))
	ikm = append(ikm, seed...)
	ikm = append(ikm, key...)
	defer walletDomain.Zero(ikm)

	confidentialityPub, confidentialityPriv, err := w.keyPairFactory.DeriveConfidentialityPair(ikm)
	if err != nil {
		return nil, err
	}
	defer walletDomain.Zero(confidentialityPriv)

	integrityPub, integrityPriv, err := w.keyPairFactory.DeriveIntegrityPair(ikm)
	if err != nil {
		return nil, err
	}
	defer walletDomain.Zero(integrityPriv)

	encryptedConfidentialityKey, err := w.sealAtRest(ctx, confidentialityPriv, key)
	if err != nil {
		return nil, err
	}
	encryptedIntegrityKey, err := w.sealAtRest(ctx, integrityPriv, key)
	if err != nil {
		return nil, err
	}
	encryptedRecoverySeed, err := w.sealAtRest(ctx, seed, key)
	if err != nil {
		return nil, err
	}

	wallet := &walletDomain.Wallet{
		ID:                          uuid.Must(uuid.NewV7()),
		OwnerID:                     input.OwnerID,
		WalletID:                    walletService.DeriveWalletID(confidentialityPub),
		ConfidentialityPublicKey:    confidentialityPub,
		IntegrityPublicKey:          integrityPub,
		EncryptedConfidentialityKey: encryptedConfidentialityKey,
		EncryptedIntegrityKey:       encryptedIntegrityKey,
		EncryptedRecoverySeed:       encryptedRecoverySeed,
		Salt:                        salt,
		Algorithm:                   w.envelope.Algorithm(),
		IsActive:                    true,
		CreatedAt:                   time.Now().UTC(),
	}

	// Replace the active wallet atomically: no window with two active wallets
	// and no window with none unless the owner had none to begin with.
	err = w.txManager.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := w.walletRepo.GetActiveByOwner(txCtx, input.OwnerID)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			if err := w.walletRepo.Deactivate(txCtx, existing.ID); err != nil {
				return err
			}
		}

		return w.walletRepo.Create(txCtx, wallet)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// getActiveWallet loads a wallet by its public identifier, treating absent and
// inactive identically.
func (w *walletUseCase) getActiveWallet(
	ctx context.Context,
	walletID string,
) (*walletDomain.Wallet, error) {
	wallet, err := w.walletRepo.GetByWalletID(ctx, walletID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, walletDomain.ErrWalletNotFound
		}
		return nil, err
	}

	if !wallet.IsActive {
		return nil, walletDomain.ErrWalletNotFound
	}

	return wallet, nil
}

// unlock derives the password key and decrypts the wallet's private material.
// Wrong password and tampered ciphertext are indistinguishable.
func (w *walletUseCase) unlock(
	ctx context.Context,
	wallet *walletDomain.Wallet,
	password string,
) (*walletDomain.UnlockedKeys, error) {
	key := w.keyDeriver.DeriveKey(password, wallet.Salt)
	defer walletDomain.Zero(key)

	// Ciphertexts open under the algorithm they were sealed with, which may
	// predate a change of the configured one.
	opener := w.envelope
	if wallet.Algorithm != "" && wallet.Algorithm != w.envelope.Algorithm() {
		opener = walletService.NewEnvelopeService(wallet.Algorithm)
	}

	confidentialityPriv, err := w.openAtRest(ctx, opener, wallet.EncryptedConfidentialityKey, key)
	if err != nil {
		return nil, err
	}

	integrityPriv, err := w.openAtRest(ctx, opener, wallet.EncryptedIntegrityKey, key)
	if err != nil {
		walletDomain.Zero(confidentialityPriv)
		return nil, err
	}

	return &walletDomain.UnlockedKeys{
		ConfidentialityPrivateKey: confidentialityPriv,
		IntegrityPrivateKey:       integrityPriv,
	}, nil
}

// sealAtRest envelope-encrypts the plaintext and applies the optional KMS
// at-rest layer.
func (w *walletUseCase) sealAtRest(ctx context.Context, plaintext, key []byte) (string, error) {
	sealed, err := w.envelope.Seal(plaintext, key)
	if err != nil {
		return "", err
	}
	return w.atRestWrapper.Wrap(ctx, sealed)
}

// openAtRest removes the optional KMS layer and opens the envelope. Envelope
// failures surface as ErrAuthenticationFailed.
func (w *walletUseCase) openAtRest(
	ctx context.Context,
	opener walletService.EnvelopeCipher,
	ciphertext string,
	key []byte,
) ([]byte, error) {
	sealed, err := w.atRestWrapper.Unwrap(ctx, ciphertext)
	if err != nil {
		return nil, err
	}

	plaintext, err := opener.Open(sealed, key)
	if err != nil {
		return nil, walletDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// NewWalletUseCase creates a new wallet use case instance with the provided dependencies.
func NewWalletUseCase(
	txManager database.TxManager,
	walletRepo WalletRepository,
	keyDeriver walletService.KeyDeriver,
	envelope walletService.EnvelopeCipher,
	keyPairFactory walletService.KeyPairFactory,
	recoveryCodec walletService.RecoveryCodec,
	atRestWrapper walletService.AtRestWrapper,
) WalletUseCase {
	return &walletUseCase{
		txManager:      txManager,
		walletRepo:     walletRepo,
		keyDeriver:     keyDeriver,
		envelope:       envelope,
		keyPairFactory: keyPairFactory,
		recoveryCodec:  recoveryCodec,
		atRestWrapper:  atRestWrapper,
	}
}
