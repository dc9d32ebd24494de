package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/pqvault/internal/database"
	apperrors "github.com/allisson/pqvault/internal/errors"
	userDomain "github.com/allisson/pqvault/internal/user/domain"
)

// MySQLUserRepository implements user persistence for MySQL databases.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository instance.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user.
func (m *MySQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, name, email, password, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(6), NOW(6))`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, user.Name, user.Email, user.Password)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return userDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by identifier.
func (m *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := userSelectColumns + ` FROM users WHERE id = ? LIMIT 1`

	return scanMySQLUser(querier.QueryRowContext(ctx, query, idBytes), "failed to get user by id")
}

// GetByEmail retrieves a user by email.
func (m *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := userSelectColumns + ` FROM users WHERE email = ? LIMIT 1`

	return scanMySQLUser(querier.QueryRowContext(ctx, query, email), "failed to get user by email")
}

// scanMySQLUser scans a user row, converting the BINARY(16) UUID column.
func scanMySQLUser(row rowScanner, wrapMsg string) (*userDomain.User, error) {
	var user userDomain.User
	var idBytes []byte

	err := row.Scan(
		&idBytes,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &user, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
