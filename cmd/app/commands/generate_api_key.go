package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
	userUseCase "github.com/allisson/pqvault/internal/user/usecase"
)

// RunGenerateAPIKey issues a new API key for the user with the given email.
// The full key value is printed exactly once; afterwards only the masked form
// is retrievable. Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible, and the user must
// already exist.
func RunGenerateAPIKey(
	ctx context.Context,
	apiKeyUC apikeyUseCase.APIKeyUseCase,
	userUC userUseCase.UserUseCase,
	logger *slog.Logger,
	writer io.Writer,
	email, name, description string,
	expiryDays int,
	format string,
) error {
	if expiryDays < 0 {
		return fmt.Errorf("expiry-days must not be negative, got: %d", expiryDays)
	}

	user, err := userUC.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	logger.Info("generating api key",
		slog.String("owner_id", user.ID.String()),
		slog.String("name", name),
	)

	apiKey, err := apiKeyUC.Generate(ctx, &apikeyDomain.GenerateAPIKeyInput{
		OwnerID:     user.ID,
		Name:        name,
		Description: description,
		ExpiryDays:  expiryDays,
	})
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	if format == "json" {
		outputAPIKeyJSON(writer, apiKey)
	} else {
		outputAPIKeyText(writer, apiKey)
	}

	logger.Info("api key generated", slog.String("api_key_id", apiKey.ID.String()))
	return nil
}

// outputAPIKeyText outputs the issued key in human-readable text format.
func outputAPIKeyText(w io.Writer, apiKey *apikeyDomain.APIKey) {
	fmt.Fprintf(w, "API key issued successfully\n")
	fmt.Fprintf(w, "ID:   %s\n", apiKey.ID.String())
	fmt.Fprintf(w, "Name: %s\n", apiKey.Name)
	fmt.Fprintf(w, "Key:  %s\n", apiKey.Key)
	if apiKey.ExpiresAt != nil {
		fmt.Fprintf(w, "Expires at: %s\n", apiKey.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "\nStore the key value now. It will not be shown again.\n")
}

// outputAPIKeyJSON outputs the issued key in JSON format for machine consumption.
func outputAPIKeyJSON(w io.Writer, apiKey *apikeyDomain.APIKey) {
	result := map[string]interface{}{
		"id":   apiKey.ID.String(),
		"name": apiKey.Name,
		"key":  apiKey.Key,
	}
	if apiKey.ExpiresAt != nil {
		result["expires_at"] = apiKey.ExpiresAt
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(w, string(jsonBytes))
}
