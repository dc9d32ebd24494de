package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// DeriveWalletID derives the public wallet identifier from the confidentiality
// public key: the first 16 uppercase hex characters of its SHA-256 digest.
func DeriveWalletID(confidentialityPublicKey []byte) string {
	sum := sha256.Sum256(confidentialityPublicKey)
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:walletDomain.WalletIDLength]
}
