package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	apikeyHTTP "github.com/allisson/pqvault/internal/apikey/http"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
	"github.com/allisson/pqvault/internal/wallet/http/dto"
)

// mockWalletUseCase is a mock implementation of WalletUseCase for testing.
type mockWalletUseCase struct {
	mock.Mock
}

func (m *mockWalletUseCase) Create(ctx context.Context, input *walletDomain.CreateWalletInput) (*walletDomain.CreateWalletOutput, error) {
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

func (m *mockWalletUseCase) Unlock(ctx context.Context, walletID, password string) (*walletDomain.UnlockedKeys, error) {
	args := m.Called(ctx, walletID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.UnlockedKeys), args.Error(1)
}

func (m *mockWalletUseCase) Sign(ctx context.Context, walletID, password string, message []byte) ([]byte, error) {
	args := m.Called(ctx, walletID, password, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockWalletUseCase) Verify(ctx context.Context, walletID string, message, signature []byte) (bool, error) {
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

func (m *mockWalletUseCase) Recover(ctx context.Context, input *walletDomain.RecoverWalletInput) (*walletDomain.Wallet, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.Wallet), args.Error(1)
}

// setupTestHandler creates a test handler with a mocked use case.
func setupTestHandler(t *testing.T) (*WalletHandler, *mockWalletUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockWalletUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewWalletHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds a gin test context with an optional JSON body.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// authenticate injects an authenticated API key for the owner.
func authenticate(c *gin.Context, ownerID uuid.UUID) {
	apiKey := &apikeyDomain.APIKey{
		ID:       uuid.Must(uuid.NewV7()),
		OwnerID:  ownerID,
		IsActive: true,
	}
	c.Request = c.Request.WithContext(apikeyHTTP.WithAPIKey(c.Request.Context(), apiKey))
}

const testWalletID = "A1B2C3D4E5F60718"

func newTestWallet(ownerID uuid.UUID) *walletDomain.Wallet {
	return &walletDomain.Wallet{
		ID:                       uuid.Must(uuid.NewV7()),
		OwnerID:                  ownerID,
		WalletID:                 testWalletID,
		ConfidentialityPublicKey: []byte("confidentiality-public-key"),
		IntegrityPublicKey:       []byte("integrity-public-key"),
		Algorithm:                walletDomain.AESGCM,
		IsActive:                 true,
		CreatedAt:                time.Now().UTC(),
	}
}

func TestWalletHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		ownerID := uuid.Must(uuid.NewV7())

		wallet := newTestWallet(ownerID)
		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(input *walletDomain.CreateWalletInput) bool {
			return input.OwnerID == ownerID && input.Password == "Sup3r-secret!"
		})).Return(&walletDomain.CreateWalletOutput{
			Wallet:         wallet,
			RecoveryPhrase: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
		}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets", dto.CreateWalletRequest{Password: "Sup3r-secret!"})
		authenticate(c, ownerID)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateWalletResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testWalletID, response.Wallet.WalletID)
		assert.NotEmpty(t, response.RecoveryPhrase)
		// Encrypted key material never appears in the response body.
		assert.NotContains(t, w.Body.String(), "encrypted")
	})

	t.Run("Error_NoAuthenticatedOwner", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/wallets", dto.CreateWalletRequest{Password: "Sup3r-secret!"})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_WeakPassword", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/wallets", dto.CreateWalletRequest{Password: "short"})
		authenticate(c, uuid.Must(uuid.NewV7()))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestWalletHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		wallet := newTestWallet(uuid.Must(uuid.NewV7()))

		mockUseCase.On("Get", mock.Anything, testWalletID).Return(wallet, nil)

		c, w := createTestContext(http.MethodGet, "/v1/wallets/"+testWalletID, nil)
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.WalletResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testWalletID, response.WalletID)
		assert.True(t, response.IsActive)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Get", mock.Anything, testWalletID).Return(nil, walletDomain.ErrWalletNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/wallets/"+testWalletID, nil)
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWalletHandler_UnlockHandler(t *testing.T) {
	t.Run("Success_KeysStayServerSide", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Unlock", mock.Anything, testWalletID, "correct-horse-battery").
			Return(&walletDomain.UnlockedKeys{
				ConfidentialityPrivateKey: []byte("confidentiality-private"),
				IntegrityPrivateKey:       []byte("integrity-private"),
			}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/unlock",
			dto.UnlockWalletRequest{Password: "correct-horse-battery"})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.UnlockHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.UnlockWalletResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Unlocked)
		assert.NotContains(t, w.Body.String(), "private")
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Unlock", mock.Anything, testWalletID, "wrong").
			Return(nil, walletDomain.ErrAuthenticationFailed)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/unlock",
			dto.UnlockWalletRequest{Password: "wrong"})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.UnlockHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWalletHandler_SignHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		message := []byte("hello")
		signature := []byte("signature-bytes")

		mockUseCase.On("Sign", mock.Anything, testWalletID, "correct-horse-battery", message).
			Return(signature, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/sign",
			dto.SignRequest{Password: "correct-horse-battery", Message: message})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.SignHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SignResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, signature, response.Signature)
	})

	t.Run("Error_EmptyMessage", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/sign",
			dto.SignRequest{Password: "correct-horse-battery"})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.SignHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWalletHandler_VerifyHandler(t *testing.T) {
	t.Run("InvalidSignatureIsFalseNotError", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		message := []byte("goodbye")
		signature := []byte("signature-bytes")

		mockUseCase.On("Verify", mock.Anything, testWalletID, message, signature).Return(false, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/verify",
			dto.VerifyRequest{Message: message, Signature: signature})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.VerifyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.VerifyResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Valid)
	})
}

func TestWalletHandler_EncryptHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		recipientID := "0123456789ABCDEF"
		message := []byte("for your eyes only")
		pkg := &walletDomain.EncryptedPackage{
			KEMCiphertext: base64.RawURLEncoding.EncodeToString([]byte("kem-ct")),
			Ciphertext:    "v1:payload",
		}

		mockUseCase.On("EncryptFor", mock.Anything, testWalletID, "correct-horse-battery", recipientID, message).
			Return(pkg, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/encrypt",
			dto.EncryptRequest{
				Password:          "correct-horse-battery",
				RecipientWalletID: recipientID,
				Message:           message,
			})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.EncryptResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, pkg.KEMCiphertext, response.KEMCiphertext)
		assert.Equal(t, pkg.Ciphertext, response.Ciphertext)
		assert.Equal(t, recipientID, response.RecipientWalletID)
	})

	t.Run("Error_BadRecipientID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/encrypt",
			dto.EncryptRequest{
				Password:          "correct-horse-battery",
				RecipientWalletID: "too-short",
				Message:           []byte("hi"),
			})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "EncryptFor",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWalletHandler_DecryptHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		message := []byte("for your eyes only")

		mockUseCase.On("DecryptFrom", mock.Anything, testWalletID, "correct-horse-battery",
			&walletDomain.EncryptedPackage{KEMCiphertext: "kem-ct", Ciphertext: "v1:payload"}).
			Return(message, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/decrypt",
			dto.DecryptRequest{
				Password:      "correct-horse-battery",
				KEMCiphertext: "kem-ct",
				Ciphertext:    "v1:payload",
			})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecryptResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, message, response.Message)
	})

	t.Run("Error_WrongKeyMaterial", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("DecryptFrom", mock.Anything, testWalletID, "correct-horse-battery", mock.Anything).
			Return(nil, walletDomain.ErrDecryptionFailed)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/"+testWalletID+"/decrypt",
			dto.DecryptRequest{
				Password:      "correct-horse-battery",
				KEMCiphertext: "kem-ct",
				Ciphertext:    "v1:tampered",
			})
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWalletHandler_RevokeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Revoke", mock.Anything, testWalletID).Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/wallets/"+testWalletID, nil)
		c.Params = gin.Params{{Key: "wallet_id", Value: testWalletID}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestWalletHandler_RecoverHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		ownerID := uuid.Must(uuid.NewV7())
		phrase := "legal winner thank year wave sausage worth useful legal winner thank yellow"
		wallet := newTestWallet(ownerID)

		mockUseCase.On("Recover", mock.Anything, mock.MatchedBy(func(input *walletDomain.RecoverWalletInput) bool {
			return input.OwnerID == ownerID &&
				input.RecoveryPhrase == phrase &&
				input.Password == "N3w-secret-pass!"
		})).Return(wallet, nil)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/recover",
			dto.RecoverWalletRequest{RecoveryPhrase: phrase, Password: "N3w-secret-pass!"})
		authenticate(c, ownerID)

		handler.RecoverHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.WalletResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testWalletID, response.WalletID)
		// Recovery never re-discloses a phrase.
		assert.NotContains(t, w.Body.String(), "recovery_phrase")
	})

	t.Run("Error_InvalidPhrase", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		ownerID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Recover", mock.Anything, mock.Anything).
			Return(nil, walletDomain.ErrInvalidRecoveryPhrase)

		c, w := createTestContext(http.MethodPost, "/v1/wallets/recover",
			dto.RecoverWalletRequest{RecoveryPhrase: "not real words", Password: "N3w-secret-pass!"})
		authenticate(c, ownerID)

		handler.RecoverHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
