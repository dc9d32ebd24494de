// Package dto provides data transfer objects for API key HTTP handling.
// The full key value appears only in issuance and rotation responses; every
// other read exposes a masked preview.
package dto

import (
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/allisson/pqvault/internal/apikey/domain"
	appValidation "github.com/allisson/pqvault/internal/validation"
)

// GenerateAPIKeyRequest contains the parameters for issuing an API key.
// Issuance is authenticated with user credentials rather than an existing
// key, so a fresh account can obtain its first key.
type GenerateAPIKeyRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ExpiryDays  int    `json:"expiry_days"`
}

// Validate checks if the generate request is valid.
func (r *GenerateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Description, validation.Length(0, 1024)),
		validation.Field(&r.ExpiryDays,
			validation.Min(0),
			validation.Max(apikeyDomain.MaxExpiryDays),
		),
	)
}
