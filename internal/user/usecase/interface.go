// Package usecase implements user registration and credential authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	userDomain "github.com/allisson/pqvault/internal/user/domain"
)

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. Fails with ErrUserAlreadyExists on a
	// duplicate email.
	Create(ctx context.Context, user *userDomain.User) error

	// GetByID retrieves a user by identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// UserUseCase defines the interface for user business logic.
type UserUseCase interface {
	// Register creates a user with a hashed password.
	Register(ctx context.Context, input RegisterUserInput) (*userDomain.User, error)

	// Authenticate checks email/password credentials. Unknown email and
	// wrong password both fail with ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*userDomain.User, error)

	// GetByID retrieves a user by identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}
