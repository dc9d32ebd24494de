package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// mockWalletUseCase mocks the WalletUseCase interface for decorator tests.
type mockWalletUseCase struct {
	mock.Mock
}

func (m *mockWalletUseCase) Create(
	ctx context.Context,
	input *walletDomain.CreateWalletInput,
) (*walletDomain.CreateWalletOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.CreateWalletOutput), args.Error(1)
}

func (m *mockWalletUseCase) Get(ctx context.Context, walletID string) (*walletDomain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.Wallet), args.Error(1)
}

func (m *mockWalletUseCase) Unlock(
	ctx context.Context,
	walletID, password string,
) (*walletDomain.UnlockedKeys, error) {
	args := m.Called(ctx, walletID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.UnlockedKeys), args.Error(1)
}

func (m *mockWalletUseCase) Sign(
	ctx context.Context,
	walletID, password string,
	message []byte,
) ([]byte, error) {
	args := m.Called(ctx, walletID, password, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockWalletUseCase) Verify(
	ctx context.Context,
	walletID string,
	message, signature []byte,
) (bool, error) {
	args := m.Called(ctx, walletID, message, signature)
	return args.Bool(0), args.Error(1)
}

func (m *mockWalletUseCase) EncryptFor(
	ctx context.Context,
	senderWalletID, senderPassword, recipientWalletID string,
	message []byte,
) (*walletDomain.EncryptedPackage, error) {
	args := m.Called(ctx, senderWalletID, senderPassword, recipientWalletID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.EncryptedPackage), args.Error(1)
}

func (m *mockWalletUseCase) DecryptFrom(
	ctx context.Context,
	walletID, password string,
	pkg *walletDomain.EncryptedPackage,
) ([]byte, error) {
	args := m.Called(ctx, walletID, password, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockWalletUseCase) Revoke(ctx context.Context, walletID string) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

func (m *mockWalletUseCase) Recover(
	ctx context.Context,
	input *walletDomain.RecoverWalletInput,
) (*walletDomain.Wallet, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.Wallet), args.Error(1)
}

func TestWalletUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Create success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		input := &walletDomain.CreateWalletInput{OwnerID: uuid.Must(uuid.NewV7()), Password: "correct horse"}
		output := &walletDomain.CreateWalletOutput{Wallet: &walletDomain.Wallet{WalletID: "wal_abc"}}

		mockNext.On("Create", ctx, input).Return(output, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_create", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_create", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Create error", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		input := &walletDomain.CreateWalletInput{OwnerID: uuid.Must(uuid.NewV7()), Password: "correct horse"}
		expectedErr := errors.New("error")

		mockNext.On("Create", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_create", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_create", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		res, err := uc.Create(ctx, input)
		assert.Error(t, err)
		assert.Nil(t, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Unlock success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		keys := &walletDomain.UnlockedKeys{}

		mockNext.On("Unlock", ctx, "wal_abc", "correct horse").Return(keys, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_unlock", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_unlock", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Unlock(ctx, "wal_abc", "correct horse")
		assert.NoError(t, err)
		assert.Equal(t, keys, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Sign success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		message := []byte("payload")
		signature := []byte("signature")

		mockNext.On("Sign", ctx, "wal_abc", "correct horse", message).Return(signature, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_sign", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_sign", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Sign(ctx, "wal_abc", "correct horse", message)
		assert.NoError(t, err)
		assert.Equal(t, signature, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Verify success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		message := []byte("payload")
		signature := []byte("signature")

		mockNext.On("Verify", ctx, "wal_abc", message, signature).Return(true, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_verify", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_verify", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		valid, err := uc.Verify(ctx, "wal_abc", message, signature)
		assert.NoError(t, err)
		assert.True(t, valid)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("EncryptFor success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		message := []byte("payload")
		pkg := &walletDomain.EncryptedPackage{KEMCiphertext: "kem", Ciphertext: "ct"}

		mockNext.On("EncryptFor", ctx, "wal_sender", "correct horse", "wal_recipient", message).
			Return(pkg, nil).
			Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_encrypt_for", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_encrypt_for", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.EncryptFor(ctx, "wal_sender", "correct horse", "wal_recipient", message)
		assert.NoError(t, err)
		assert.Equal(t, pkg, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("DecryptFrom success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		pkg := &walletDomain.EncryptedPackage{KEMCiphertext: "kem", Ciphertext: "ct"}
		plaintext := []byte("payload")

		mockNext.On("DecryptFrom", ctx, "wal_abc", "correct horse", pkg).Return(plaintext, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_decrypt_from", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_decrypt_from", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.DecryptFrom(ctx, "wal_abc", "correct horse", pkg)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Revoke success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Revoke", ctx, "wal_abc").Return(nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_revoke", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_revoke", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		err := uc.Revoke(ctx, "wal_abc")
		assert.NoError(t, err)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Recover success", func(t *testing.T) {
		mockNext := &mockWalletUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewWalletUseCaseWithMetrics(mockNext, mockMetrics)

		input := &walletDomain.RecoverWalletInput{
			OwnerID:        uuid.Must(uuid.NewV7()),
			RecoveryPhrase: "abandon ability able about above absent absorb abstract absurd abuse access accident",
			Password:       "new password",
		}
		wallet := &walletDomain.Wallet{WalletID: "wal_fresh"}

		mockNext.On("Recover", ctx, input).Return(wallet, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "wallet", "wallet_recover", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "wallet", "wallet_recover", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Recover(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, wallet, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
