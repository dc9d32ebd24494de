// Package http provides the bearer authentication middleware and HTTP
// handlers for API key management.
package http

import (
	"context"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
)

// apiKeyKey is a context key type for storing the authenticated API key.
type apiKeyKey struct{}

// WithAPIKey stores the authenticated API key in the context.
// Called by the authentication middleware after successful validation.
func WithAPIKey(ctx context.Context, apiKey *apikeyDomain.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyKey{}, apiKey)
}

// GetAPIKey retrieves the authenticated API key from the context.
// Returns (key, true) if present, or (nil, false) if no key was set.
func GetAPIKey(ctx context.Context) (*apikeyDomain.APIKey, bool) {
	apiKey, ok := ctx.Value(apiKeyKey{}).(*apikeyDomain.APIKey)
	return apiKey, ok
}
