package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBLAKE2bTokenizer_Tokenize(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	tokenizer := NewBLAKE2bTokenizer()

	t.Run("returns 16 lowercase hex characters", func(t *testing.T) {
		token, err := tokenizer.Tokenize(key, []byte("alice@example.com"))
		require.NoError(t, err)
		assert.Len(t, token, 16)
		for _, r := range token {
			assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "unexpected rune %q", r)
		}
	})

	t.Run("deterministic for same key and plaintext", func(t *testing.T) {
		token1, err := tokenizer.Tokenize(key, []byte("alice@example.com"))
		require.NoError(t, err)

		token2, err := tokenizer.Tokenize(key, []byte("alice@example.com"))
		require.NoError(t, err)

		assert.Equal(t, token1, token2)
	})

	t.Run("equal plaintexts under the same key produce equal tokens", func(t *testing.T) {
		a, err := tokenizer.Tokenize(key, []byte("same value"))
		require.NoError(t, err)
		b, err := tokenizer.Tokenize(key, []byte("same value"))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different plaintexts under the same key produce different tokens", func(t *testing.T) {
		a, err := tokenizer.Tokenize(key, []byte("value one"))
		require.NoError(t, err)
		b, err := tokenizer.Tokenize(key, []byte("value two"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("same plaintext under different keys produces different tokens", func(t *testing.T) {
		otherKey := make([]byte, 32)
		_, err := rand.Read(otherKey)
		require.NoError(t, err)

		a, err := tokenizer.Tokenize(key, []byte("shared plaintext"))
		require.NoError(t, err)
		b, err := tokenizer.Tokenize(otherKey, []byte("shared plaintext"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("empty plaintext tokenizes deterministically", func(t *testing.T) {
		a, err := tokenizer.Tokenize(key, []byte(""))
		require.NoError(t, err)
		b, err := tokenizer.Tokenize(key, []byte(""))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 16)
	})

	t.Run("invalid key size", func(t *testing.T) {
		shortKey := make([]byte, 16)
		token, err := tokenizer.Tokenize(shortKey, []byte("value"))
		assert.Error(t, err)
		assert.Empty(t, token)
	})

	t.Run("unicode plaintext", func(t *testing.T) {
		token, err := tokenizer.Tokenize(key, []byte("世界 🔐"))
		require.NoError(t, err)
		assert.Len(t, token, 16)
	})
}

func TestBLAKE2bTokenizer_DeriveSubKey(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	tokenizer := NewBLAKE2bTokenizer()

	subKey1, err := tokenizer.deriveSubKey(key)
	require.NoError(t, err)
	assert.Len(t, subKey1, 32)

	subKey2, err := tokenizer.deriveSubKey(key)
	require.NoError(t, err)
	assert.Equal(t, subKey1, subKey2)

	assert.NotEqual(t, key, subKey1)
}
