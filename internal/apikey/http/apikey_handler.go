package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	"github.com/allisson/pqvault/internal/apikey/http/dto"
	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
	apperrors "github.com/allisson/pqvault/internal/errors"
	"github.com/allisson/pqvault/internal/httputil"
	userUseCase "github.com/allisson/pqvault/internal/user/usecase"
	customValidation "github.com/allisson/pqvault/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	userUseCase   userUseCase.UserUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	userUseCase userUseCase.UserUseCase,
	logger *slog.Logger,
) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		userUseCase:   userUseCase,
		logger:        logger,
	}
}

// GenerateHandler issues a new API key, authenticated with user credentials.
// POST /v1/api-keys
// Returns 201 Created with the full key value. The value is disclosed here
// and never again; later reads return a masked preview.
func (h *APIKeyHandler) GenerateHandler(c *gin.Context) {
	var req dto.GenerateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Generate(c.Request.Context(), &apikeyDomain.GenerateAPIKeyInput{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		ExpiryDays:  req.ExpiryDays,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAPIKeyToIssuedResponse(apiKey)
	c.JSON(http.StatusCreated, response)
}

// ListHandler retrieves the caller's active keys with masked previews.
// GET /v1/api-keys
// Returns 200 OK.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	apiKey, ok := GetAPIKey(c.Request.Context())
	if !ok || apiKey == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), apiKey.OwnerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAPIKeysToListResponse(apiKeys)
	c.JSON(http.StatusOK, response)
}

// RotateHandler replaces one of the caller's keys with a fresh one.
// POST /v1/api-keys/:id/rotate
// Returns 201 Created with the full replacement key value. The old key stops
// validating as soon as the rotation commits.
func (h *APIKeyHandler) RotateHandler(c *gin.Context) {
	id, ok := h.ownedKeyID(c)
	if !ok {
		return
	}

	newKey, err := h.apiKeyUseCase.Rotate(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAPIKeyToIssuedResponse(newKey)
	c.JSON(http.StatusCreated, response)
}

// RevokeHandler deactivates one of the caller's keys.
// DELETE /v1/api-keys/:id
// Returns 204 No Content. Revoking an already revoked key is a no-op.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	id, ok := h.ownedKeyID(c)
	if !ok {
		return
	}

	if err := h.apiKeyUseCase.Revoke(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ownedKeyID parses the :id parameter and checks that the referenced key
// belongs to the caller. Foreign keys read as not found so key identifiers
// are not enumerable across owners.
func (h *APIKeyHandler) ownedKeyID(c *gin.Context) (uuid.UUID, bool) {
	caller, ok := GetAPIKey(c.Request.Context())
	if !ok || caller == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return uuid.Nil, false
	}

	target, err := h.apiKeyUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return uuid.Nil, false
	}
	if target.OwnerID != caller.OwnerID {
		httputil.HandleErrorGin(c, apikeyDomain.ErrAPIKeyNotFound, h.logger)
		return uuid.Nil, false
	}

	return id, true
}
