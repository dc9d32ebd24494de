// Package http provides HTTP handlers for wallet lifecycle operations.
// Wallet private keys are stored encrypted under a password-derived key and
// are decrypted transiently per request; they are never written to a response.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyHTTP "github.com/allisson/pqvault/internal/apikey/http"
	apperrors "github.com/allisson/pqvault/internal/errors"
	"github.com/allisson/pqvault/internal/httputil"
	customValidation "github.com/allisson/pqvault/internal/validation"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
	"github.com/allisson/pqvault/internal/wallet/http/dto"
	walletUseCase "github.com/allisson/pqvault/internal/wallet/usecase"
)

// WalletHandler handles HTTP requests for wallet lifecycle operations.
type WalletHandler struct {
	walletUseCase walletUseCase.WalletUseCase
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler with required dependencies.
func NewWalletHandler(walletUseCase walletUseCase.WalletUseCase, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a wallet for the authenticated owner.
// POST /v1/wallets
// Returns 201 Created with the wallet view and the one-time recovery phrase.
// The phrase is not recoverable after this response.
func (h *WalletHandler) CreateHandler(c *gin.Context) {
	ownerID, ok := ownerFromContext(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.walletUseCase.Create(c.Request.Context(), &walletDomain.CreateWalletInput{
		OwnerID:  ownerID,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapCreateWalletOutputToResponse(output)
	c.JSON(http.StatusCreated, response)
}

// RecoverHandler replaces the owner's active wallet with a fresh identity
// derived from the recovery phrase and a new password.
// POST /v1/wallets/recover
// Returns 201 Created with the new wallet view. No recovery phrase is
// returned; the submitted phrase remains the wallet's recovery secret.
func (h *WalletHandler) RecoverHandler(c *gin.Context) {
	ownerID, ok := ownerFromContext(c, h.logger)
	if !ok {
		return
	}

	var req dto.RecoverWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	wallet, err := h.walletUseCase.Recover(c.Request.Context(), &walletDomain.RecoverWalletInput{
		OwnerID:        ownerID,
		RecoveryPhrase: req.RecoveryPhrase,
		Password:       req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapWalletToResponse(wallet)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a wallet's public view by its identifier.
// GET /v1/wallets/:wallet_id
// Returns 200 OK. Absent and revoked wallets are indistinguishable (404).
func (h *WalletHandler) GetHandler(c *gin.Context) {
	wallet, err := h.walletUseCase.Get(c.Request.Context(), c.Param("wallet_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapWalletToResponse(wallet)
	c.JSON(http.StatusOK, response)
}

// UnlockHandler checks the wallet password and stamps last_unlocked_at.
// POST /v1/wallets/:wallet_id/unlock
// Returns 200 OK with a confirmation. The decrypted keys never leave the
// server; they are zeroed before this handler responds.
func (h *WalletHandler) UnlockHandler(c *gin.Context) {
	walletID := c.Param("wallet_id")

	var req dto.UnlockWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	keys, err := h.walletUseCase.Unlock(c.Request.Context(), walletID, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	keys.Zero()

	c.JSON(http.StatusOK, dto.UnlockWalletResponse{WalletID: walletID, Unlocked: true})
}

// SignHandler signs a message with the wallet's integrity key.
// POST /v1/wallets/:wallet_id/sign
// Returns 200 OK with a detached signature.
func (h *WalletHandler) SignHandler(c *gin.Context) {
	walletID := c.Param("wallet_id")

	var req dto.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	signature, err := h.walletUseCase.Sign(c.Request.Context(), walletID, req.Password, req.Message)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SignResponse{WalletID: walletID, Signature: signature})
}

// VerifyHandler verifies a signature against the wallet's integrity public key.
// POST /v1/wallets/:wallet_id/verify
// Public operation: no password required. Returns 200 OK with the verdict;
// an invalid signature is a normal false result, not an error.
func (h *WalletHandler) VerifyHandler(c *gin.Context) {
	walletID := c.Param("wallet_id")

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	valid, err := h.walletUseCase.Verify(c.Request.Context(), walletID, req.Message, req.Signature)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{WalletID: walletID, Valid: valid})
}

// EncryptHandler encrypts a message for another wallet.
// POST /v1/wallets/:wallet_id/encrypt
// The path wallet is the authenticated sender; the recipient is named in the
// request body. Returns 200 OK with an encrypted package only the recipient
// wallet can open.
func (h *WalletHandler) EncryptHandler(c *gin.Context) {
	senderWalletID := c.Param("wallet_id")

	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pkg, err := h.walletUseCase.EncryptFor(
		c.Request.Context(),
		senderWalletID,
		req.Password,
		req.RecipientWalletID,
		req.Message,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapEncryptedPackageToResponse(senderWalletID, req.RecipientWalletID, pkg)
	c.JSON(http.StatusOK, response)
}

// DecryptHandler decrypts a package addressed to the wallet.
// POST /v1/wallets/:wallet_id/decrypt
// Returns 200 OK with the plaintext message. SECURITY: the plaintext is
// zeroed after the response is written.
func (h *WalletHandler) DecryptHandler(c *gin.Context) {
	walletID := c.Param("wallet_id")

	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	message, err := h.walletUseCase.DecryptFrom(c.Request.Context(), walletID, req.Password, &walletDomain.EncryptedPackage{
		KEMCiphertext: req.KEMCiphertext,
		Ciphertext:    req.Ciphertext,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer walletDomain.Zero(message)

	c.JSON(http.StatusOK, dto.DecryptResponse{WalletID: walletID, Message: message})
}

// RevokeHandler deactivates a wallet. Revoking an already revoked wallet is a no-op.
// DELETE /v1/wallets/:wallet_id
// Returns 204 No Content.
func (h *WalletHandler) RevokeHandler(c *gin.Context) {
	if err := h.walletUseCase.Revoke(c.Request.Context(), c.Param("wallet_id")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ownerFromContext extracts the authenticated owner set by the API key
// middleware. A missing principal means the middleware did not run.
func ownerFromContext(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	key, found := apikeyHTTP.GetAPIKey(c.Request.Context())
	if !found || key == nil {
		logger.Debug("request without authenticated api key")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return uuid.Nil, false
	}
	return key.OwnerID, true
}
