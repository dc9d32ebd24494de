package service

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
)

func newTestSeed(t *testing.T) []byte {
	t.Helper()
	seed := make([]byte, walletDomain.SeedSize)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	return seed
}

func TestWordlistRecoveryCodec_EncodePhrase(t *testing.T) {
	codec := NewWordlistRecoveryCodec()

	t.Run("produces 12 wordlist words", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		words := strings.Fields(phrase)
		assert.Len(t, words, walletDomain.PhraseWordCount)
		assert.NoError(t, codec.ValidatePhrase(phrase))
	})

	t.Run("deterministic for same seed", func(t *testing.T) {
		seed := newTestSeed(t)

		phrase1, err := codec.EncodePhrase(seed)
		require.NoError(t, err)
		phrase2, err := codec.EncodePhrase(seed)
		require.NoError(t, err)

		assert.Equal(t, phrase1, phrase2)
	})

	t.Run("uses only the first 24 bytes of the seed", func(t *testing.T) {
		seed := newTestSeed(t)
		altered := append([]byte(nil), seed...)
		altered[len(altered)-1] ^= 0xff

		phrase1, err := codec.EncodePhrase(seed)
		require.NoError(t, err)
		phrase2, err := codec.EncodePhrase(altered)
		require.NoError(t, err)

		assert.Equal(t, phrase1, phrase2)
	})

	t.Run("known seed yields known phrase", func(t *testing.T) {
		seed := make([]byte, walletDomain.SeedSize)
		// Word index 0 twelve times.
		phrase, err := codec.EncodePhrase(seed)
		require.NoError(t, err)

		assert.Equal(t, strings.Repeat("abandon ", 11)+"abandon", phrase)
	})

	t.Run("rejects short seed", func(t *testing.T) {
		_, err := codec.EncodePhrase(make([]byte, 10))
		assert.Error(t, err)
	})
}

func TestWordlistRecoveryCodec_PhraseToSeed(t *testing.T) {
	codec := NewWordlistRecoveryCodec()

	t.Run("returns 32 bytes", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		assert.Len(t, codec.PhraseToSeed(phrase), walletDomain.SeedSize)
	})

	t.Run("deterministic", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		assert.Equal(t, codec.PhraseToSeed(phrase), codec.PhraseToSeed(phrase))
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		messy := "  " + strings.ToUpper(strings.ReplaceAll(phrase, " ", "   ")) + "\n"
		assert.Equal(t, codec.PhraseToSeed(phrase), codec.PhraseToSeed(messy))
	})

	t.Run("different phrases yield different seeds", func(t *testing.T) {
		phrase1, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)
		phrase2, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)
		require.NotEqual(t, phrase1, phrase2)

		assert.NotEqual(t, codec.PhraseToSeed(phrase1), codec.PhraseToSeed(phrase2))
	})
}

func TestWordlistRecoveryCodec_ValidatePhrase(t *testing.T) {
	codec := NewWordlistRecoveryCodec()

	t.Run("accepts a generated phrase", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		assert.NoError(t, codec.ValidatePhrase(phrase))
	})

	t.Run("accepts mixed case and extra whitespace", func(t *testing.T) {
		phrase, err := codec.EncodePhrase(newTestSeed(t))
		require.NoError(t, err)

		assert.NoError(t, codec.ValidatePhrase("  "+strings.ToUpper(phrase)+"  "))
	})

	t.Run("rejects wrong word count", func(t *testing.T) {
		err := codec.ValidatePhrase("abandon ability able")
		assert.ErrorIs(t, err, walletDomain.ErrInvalidRecoveryPhrase)
	})

	t.Run("rejects empty phrase", func(t *testing.T) {
		err := codec.ValidatePhrase("")
		assert.ErrorIs(t, err, walletDomain.ErrInvalidRecoveryPhrase)
	})

	t.Run("rejects words outside the wordlist", func(t *testing.T) {
		phrase := strings.Repeat("abandon ", 11) + "xenomorph"
		err := codec.ValidatePhrase(phrase)
		assert.ErrorIs(t, err, walletDomain.ErrInvalidRecoveryPhrase)
	})
}

func TestWordlistRecoveryCodec_DeriveSalt(t *testing.T) {
	codec := NewWordlistRecoveryCodec()

	t.Run("returns first 16 bytes of the seed", func(t *testing.T) {
		seed := newTestSeed(t)

		salt, err := codec.DeriveSalt(seed)
		assert.NoError(t, err)
		assert.Equal(t, seed[:walletDomain.SaltSize], salt)
	})

	t.Run("returned salt is a copy", func(t *testing.T) {
		seed := newTestSeed(t)

		salt, err := codec.DeriveSalt(seed)
		require.NoError(t, err)

		salt[0] ^= 0xff
		assert.NotEqual(t, seed[0], salt[0])
	})

	t.Run("rejects short seed", func(t *testing.T) {
		_, err := codec.DeriveSalt(make([]byte, 8))
		assert.Error(t, err)
	})
}
