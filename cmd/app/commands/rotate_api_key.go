package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
)

// RunRotateAPIKey atomically replaces an API key's value. The old key stops
// working immediately and the new key value is printed exactly once. Supports
// both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunRotateAPIKey(
	ctx context.Context,
	apiKeyUC apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id, format string,
) error {
	keyID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid api key id: %w", err)
	}

	logger.Info("rotating api key", slog.String("api_key_id", id))

	apiKey, err := apiKeyUC.Rotate(ctx, keyID)
	if err != nil {
		return fmt.Errorf("failed to rotate api key: %w", err)
	}

	if format == "json" {
		outputAPIKeyJSON(writer, apiKey)
	} else {
		outputAPIKeyText(writer, apiKey)
	}

	logger.Info("api key rotated",
		slog.String("old_api_key_id", id),
		slog.String("new_api_key_id", apiKey.ID.String()),
	)
	return nil
}
