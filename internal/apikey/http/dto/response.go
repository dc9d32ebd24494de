package dto

import (
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
)

// APIKeyResponse is the read-back view of an API key. The key field carries
// only a masked preview.
type APIKeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// IssuedAPIKeyResponse is returned on issuance and rotation only. It carries
// the full key value, disclosed exactly once.
type IssuedAPIKeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ListAPIKeysResponse wraps a collection of masked key views.
type ListAPIKeysResponse struct {
	APIKeys []APIKeyResponse `json:"api_keys"`
}

// MapAPIKeyToResponse converts a record to its masked read-back view.
func MapAPIKeyToResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          apiKey.ID,
		OwnerID:     apiKey.OwnerID,
		Key:         apiKey.MaskedKey(),
		Name:        apiKey.Name,
		Description: apiKey.Description,
		IsActive:    apiKey.IsActive,
		CreatedAt:   apiKey.CreatedAt,
		LastUsedAt:  apiKey.LastUsedAt,
		ExpiresAt:   apiKey.ExpiresAt,
	}
}

// MapAPIKeyToIssuedResponse converts a freshly issued record, including the
// full key value.
func MapAPIKeyToIssuedResponse(apiKey *apikeyDomain.APIKey) IssuedAPIKeyResponse {
	return IssuedAPIKeyResponse{
		ID:          apiKey.ID,
		OwnerID:     apiKey.OwnerID,
		Key:         apiKey.Key,
		Name:        apiKey.Name,
		Description: apiKey.Description,
		IsActive:    apiKey.IsActive,
		CreatedAt:   apiKey.CreatedAt,
		ExpiresAt:   apiKey.ExpiresAt,
	}
}

// MapAPIKeysToListResponse converts a collection of records to masked views.
func MapAPIKeysToListResponse(apiKeys []*apikeyDomain.APIKey) ListAPIKeysResponse {
	responses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		responses = append(responses, MapAPIKeyToResponse(apiKey))
	}
	return ListAPIKeysResponse{APIKeys: responses}
}
