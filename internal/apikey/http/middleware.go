package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
	apperrors "github.com/allisson/pqvault/internal/errors"
	"github.com/allisson/pqvault/internal/httputil"
)

// AuthenticationMiddleware provides authentication via Bearer API key in the
// Authorization header.
//
// The middleware extracts the key from "Bearer <key>" (case-insensitive
// prefix), validates it through APIKeyUseCase.Validate and stores the
// resulting record in the request context for downstream handlers. Validation
// is also the usage-accounting write: it stamps last_used_at.
//
// Missing, malformed, unknown, inactive and expired keys all map to
// 401 Unauthorized.
func AuthenticationMiddleware(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		key := authHeader[len(bearerPrefix):]
		if key == "" {
			logger.Debug("authentication failed: empty bearer key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		apiKey, err := apiKeyUseCase.Validate(c.Request.Context(), key)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithAPIKey(c.Request.Context(), apiKey)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("api_key_id", apiKey.ID.String()),
			slog.String("owner_id", apiKey.OwnerID.String()))

		c.Next()
	}
}
