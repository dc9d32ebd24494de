// Package dto provides data transfer objects for wallet HTTP request and
// response handling. Responses never carry private key material, recovery
// seeds, or stored ciphertexts; the recovery phrase appears exactly once, in
// the creation response.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/pqvault/internal/validation"
	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// walletPasswordStrength is the minimum policy for wallet passwords. The core
// derivation accepts any password; strength is a boundary concern.
var walletPasswordStrength = customValidation.PasswordStrength{
	MinLength:      8,
	RequireUpper:   true,
	RequireLower:   true,
	RequireNumber:  true,
	RequireSpecial: true,
}

// CreateWalletRequest contains the parameters for creating a wallet.
type CreateWalletRequest struct {
	Password string `json:"password"`
}

// Validate checks if the create wallet request is valid.
func (r *CreateWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			walletPasswordStrength,
		),
	)
}

// RecoverWalletRequest contains the parameters for recovering a wallet.
type RecoverWalletRequest struct {
	RecoveryPhrase string `json:"recovery_phrase"`
	Password       string `json:"password"`
}

// Validate checks if the recover wallet request is valid.
func (r *RecoverWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RecoveryPhrase, validation.Required),
		validation.Field(&r.Password,
			validation.Required,
			walletPasswordStrength,
		),
	)
}

// UnlockWalletRequest contains the password for an unlock check.
type UnlockWalletRequest struct {
	Password string `json:"password"`
}

// Validate checks if the unlock wallet request is valid.
func (r *UnlockWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
	)
}

// SignRequest contains the parameters for signing a message.
// The message is base64-encoded in transport.
type SignRequest struct {
	Password string `json:"password"`
	Message  []byte `json:"message"`
}

// Validate checks if the sign request is valid.
func (r *SignRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 0)),
	)
}

// VerifyRequest contains the parameters for verifying a signature.
type VerifyRequest struct {
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
}

// Validate checks if the verify request is valid.
func (r *VerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Signature, validation.Required, validation.Length(1, 0)),
	)
}

// EncryptRequest contains the parameters for encrypting a message for another wallet.
type EncryptRequest struct {
	Password          string `json:"password"`
	RecipientWalletID string `json:"recipient_wallet_id"`
	Message           []byte `json:"message"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.RecipientWalletID,
			validation.Required,
			validation.Length(walletDomain.WalletIDLength, walletDomain.WalletIDLength),
		),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 0)),
	)
}

// DecryptRequest contains the parameters for decrypting a received package.
type DecryptRequest struct {
	Password      string `json:"password"`
	KEMCiphertext string `json:"kem_ciphertext"`
	Ciphertext    string `json:"ciphertext"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.KEMCiphertext, validation.Required),
		validation.Field(&r.Ciphertext, validation.Required),
	)
}
