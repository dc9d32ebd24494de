package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/pqvault/internal/user/domain"
	userUseCase "github.com/allisson/pqvault/internal/user/usecase"
)

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	input := userUseCase.RegisterUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ng!Password",
	}
	user := &userDomain.User{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  "Alice",
		Email: "alice@example.com",
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		mockUseCase.On("Register", ctx, input).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "Alice", "alice@example.com", "Str0ng!Password", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "User created successfully")
		require.Contains(t, out.String(), user.ID.String())
		require.Contains(t, out.String(), "alice@example.com")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		mockUseCase.On("Register", ctx, input).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "Alice", "alice@example.com", "Str0ng!Password", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"email": "alice@example.com"`)
		require.Contains(t, out.String(), user.ID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("registration-failure", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		mockUseCase.On("Register", ctx, input).Return(nil, errors.New("boom"))

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "Alice", "alice@example.com", "Str0ng!Password", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create user")
		require.Empty(t, out.String())
	})
}
