package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userUseCase "github.com/allisson/pqvault/internal/user/usecase"
)

// RunCreateUser registers a new user account from the command line.
// Supports both text and JSON output formats. The password is validated by
// the use case with the same policy the HTTP API applies.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UserUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name, email, password, format string,
) error {
	logger.Info("creating user", slog.String("email", email))

	user, err := useCase.Register(ctx, userUseCase.RegisterUserInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputCreateUserJSON(writer, user.ID.String(), user.Name, user.Email)
	} else {
		outputCreateUserText(writer, user.ID.String(), user.Name, user.Email)
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(w io.Writer, id, name, email string) {
	fmt.Fprintf(w, "User created successfully\n")
	fmt.Fprintf(w, "ID:    %s\n", id)
	fmt.Fprintf(w, "Name:  %s\n", name)
	fmt.Fprintf(w, "Email: %s\n", email)
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(w io.Writer, id, name, email string) {
	result := map[string]interface{}{
		"id":    id,
		"name":  name,
		"email": email,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(w, string(jsonBytes))
}
