package dto

import (
	"time"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// WalletResponse represents the public view of a wallet.
// Encrypted key material and the at-rest salt are never exposed.
type WalletResponse struct {
	WalletID                 string     `json:"wallet_id"`
	ConfidentialityPublicKey []byte     `json:"confidentiality_public_key"`
	IntegrityPublicKey       []byte     `json:"integrity_public_key"`
	Algorithm                string     `json:"algorithm"`
	IsActive                 bool       `json:"is_active"`
	CreatedAt                time.Time  `json:"created_at"`
	LastUnlockedAt           *time.Time `json:"last_unlocked_at,omitempty"`
}

// CreateWalletResponse is the creation result. The recovery phrase is
// returned here and never again.
type CreateWalletResponse struct {
	Wallet         WalletResponse `json:"wallet"`
	RecoveryPhrase string         `json:"recovery_phrase"`
}

// UnlockWalletResponse confirms that the password unlocked the wallet.
// Decrypted private keys stay server-side and are discarded after the check.
type UnlockWalletResponse struct {
	WalletID string `json:"wallet_id"`
	Unlocked bool   `json:"unlocked"`
}

// SignResponse carries a detached signature over the submitted message.
type SignResponse struct {
	WalletID  string `json:"wallet_id"`
	Signature []byte `json:"signature"`
}

// VerifyResponse carries the result of a signature verification.
type VerifyResponse struct {
	WalletID string `json:"wallet_id"`
	Valid    bool   `json:"valid"`
}

// EncryptResponse carries an encrypted package addressed to the recipient wallet.
type EncryptResponse struct {
	SenderWalletID    string `json:"sender_wallet_id"`
	RecipientWalletID string `json:"recipient_wallet_id"`
	KEMCiphertext     string `json:"kem_ciphertext"`
	Ciphertext        string `json:"ciphertext"`
}

// DecryptResponse carries a decrypted message.
// The message is base64-encoded in transport.
type DecryptResponse struct {
	WalletID string `json:"wallet_id"`
	Message  []byte `json:"message"`
}

// MapWalletToResponse converts a wallet domain entity to its public view.
func MapWalletToResponse(wallet *walletDomain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:                 wallet.WalletID,
		ConfidentialityPublicKey: wallet.ConfidentialityPublicKey,
		IntegrityPublicKey:       wallet.IntegrityPublicKey,
		Algorithm:                string(wallet.Algorithm),
		IsActive:                 wallet.IsActive,
		CreatedAt:                wallet.CreatedAt,
		LastUnlockedAt:           wallet.LastUnlockedAt,
	}
}

// MapCreateWalletOutputToResponse converts a creation result, including the
// one-time recovery phrase.
func MapCreateWalletOutputToResponse(output *walletDomain.CreateWalletOutput) CreateWalletResponse {
	return CreateWalletResponse{
		Wallet:         MapWalletToResponse(output.Wallet),
		RecoveryPhrase: output.RecoveryPhrase,
	}
}

// MapEncryptedPackageToResponse converts an encrypted package to its transport view.
func MapEncryptedPackageToResponse(senderWalletID, recipientWalletID string, pkg *walletDomain.EncryptedPackage) EncryptResponse {
	return EncryptResponse{
		SenderWalletID:    senderWalletID,
		RecipientWalletID: recipientWalletID,
		KEMCiphertext:     pkg.KEMCiphertext,
		Ciphertext:        pkg.Ciphertext,
	}
}
