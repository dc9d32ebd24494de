package usecase

import (
	"context"
	"strings"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"
	"github.com/google/uuid"

	apperrors "github.com/allisson/pqvault/internal/errors"
	userDomain "github.com/allisson/pqvault/internal/user/domain"
	appValidation "github.com/allisson/pqvault/internal/validation"
)

// userUseCase implements the UserUseCase interface.
type userUseCase struct {
	userRepo       UserRepository
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase with an Argon2id password hasher
// using the interactive policy.
func NewUserUseCase(userRepo UserRepository) (UserUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &userUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
	}, nil
}

// validateRegisterUserInput validates the registration input.
func (u *userUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a user with a hashed password.
// Name and email are normalized before validation so that the stored values
// are exactly the ones validation accepted.
func (u *userUseCase) Register(ctx context.Context, input RegisterUserInput) (*userDomain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := u.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := u.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks email/password credentials.
func (u *userUseCase) Authenticate(ctx context.Context, email, password string) (*userDomain.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, userDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := u.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !ok {
		return nil, userDomain.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by identifier.
func (u *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (u *userUseCase) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return u.userRepo.GetByEmail(ctx, email)
}
