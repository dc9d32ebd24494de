package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
)

// RunSweepExpiredKeys bulk-deactivates API keys whose expiry instant has
// passed. Validation already deactivates expired keys lazily on use; the
// sweep catches keys that expired without ever being presented again.
// Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunSweepExpiredKeys(
	ctx context.Context,
	apiKeyUC apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("sweeping expired api keys")

	count, err := apiKeyUC.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep expired api keys: %w", err)
	}

	if format == "json" {
		outputSweepJSON(writer, count)
	} else {
		outputSweepText(writer, count)
	}

	logger.Info("sweep completed", slog.Int64("count", count))
	return nil
}

// outputSweepText outputs the result in human-readable text format.
func outputSweepText(w io.Writer, count int64) {
	fmt.Fprintf(w, "Deactivated %d expired api key(s)\n", count)
}

// outputSweepJSON outputs the result in JSON format for machine consumption.
func outputSweepJSON(w io.Writer, count int64) {
	result := map[string]interface{}{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(w, string(jsonBytes))
}
