package service

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

// phraseSeedBytes is how much of the seed the phrase encodes: two bytes per word.
const phraseSeedBytes = walletDomain.PhraseWordCount * 2

// WordlistRecoveryCodec renders recovery seeds as phrases over the BIP-39
// English wordlist. Encoding is lossy (two seed bytes map to one word by
// modular reduction), so the phrase cannot rebuild the original seed;
// PhraseToSeed instead hashes the phrase into fresh deterministic seed
// material for re-derivation.
type WordlistRecoveryCodec struct {
	words []string
	index map[string]struct{}
}

// NewWordlistRecoveryCodec creates a RecoveryCodec backed by the BIP-39
// English wordlist.
func NewWordlistRecoveryCodec() *WordlistRecoveryCodec {
	words := wordlists.English
	index := make(map[string]struct{}, len(words))
	for _, w := range words {
		index[w] = struct{}{}
	}
	return &WordlistRecoveryCodec{words: words, index: index}
}

// EncodePhrase renders the seed as a 12-word space-separated phrase. Each word
// is selected from two consecutive seed bytes taken big-endian modulo the
// wordlist length.
func (c *WordlistRecoveryCodec) EncodePhrase(seed []byte) (string, error) {
	if len(seed) < phraseSeedBytes {
		return "", fmt.Errorf("seed too short for recovery phrase: got %d bytes, need %d", len(seed), phraseSeedBytes)
	}

	words := make([]string, walletDomain.PhraseWordCount)
	for i := range words {
		n := binary.BigEndian.Uint16(seed[i*2 : i*2+2])
		words[i] = c.words[int(n)%len(c.words)]
	}

	return strings.Join(words, " "), nil
}

// PhraseToSeed hashes the normalized phrase into 32 bytes of seed material.
func (c *WordlistRecoveryCodec) PhraseToSeed(phrase string) []byte {
	sum := sha256.Sum256([]byte(normalizePhrase(phrase)))
	return sum[:]
}

// ValidatePhrase checks that the phrase has exactly 12 words, all from the wordlist.
func (c *WordlistRecoveryCodec) ValidatePhrase(phrase string) error {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) != walletDomain.PhraseWordCount {
		return fmt.Errorf("%w: expected %d words, got %d", walletDomain.ErrInvalidRecoveryPhrase, walletDomain.PhraseWordCount, len(words))
	}

	for _, w := range words {
		if _, ok := c.index[w]; !ok {
			return fmt.Errorf("%w: unknown word %q", walletDomain.ErrInvalidRecoveryPhrase, w)
		}
	}

	return nil
}

// DeriveSalt returns the first 16 bytes of the seed as the KDF salt.
func (c *WordlistRecoveryCodec) DeriveSalt(seed []byte) ([]byte, error) {
	if len(seed) < walletDomain.SaltSize {
		return nil, fmt.Errorf("seed too short for salt: got %d bytes, need %d", len(seed), walletDomain.SaltSize)
	}

	salt := make([]byte, walletDomain.SaltSize)
	copy(salt, seed[:walletDomain.SaltSize])
	return salt, nil
}

// normalizePhrase lowercases the phrase and collapses whitespace so that
// formatting differences never change the derived seed.
func normalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}
