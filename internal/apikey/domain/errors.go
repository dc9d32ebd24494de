package domain

import (
	"github.com/allisson/pqvault/internal/errors"
)

// API key domain errors.
var (
	// ErrInvalidAPIKey covers unknown, inactive and freshly expired keys.
	// The causes are deliberately indistinguishable to the caller.
	ErrInvalidAPIKey = errors.Wrap(errors.ErrUnauthorized, "invalid api key")

	// ErrAPIKeyNotFound indicates the referenced key record does not exist.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")
)
