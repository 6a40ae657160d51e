package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("doc-1")
	assert.Equal(t, "doc-1", doc.ID)
	assert.NotNil(t, doc.Fields)
	assert.Empty(t, doc.Fields)
}

func TestDeriveMask(t *testing.T) {
	t.Run("ascii plaintext", func(t *testing.T) {
		mask := DeriveMask([]byte("alice@example.com"), "0123456789abcdef")
		assert.Equal(t, "a…abcdef", mask)
	})

	t.Run("empty plaintext", func(t *testing.T) {
		mask := DeriveMask([]byte(""), "0123456789abcdef")
		assert.Equal(t, "…abcdef", mask)
	})

	t.Run("unicode first rune", func(t *testing.T) {
		mask := DeriveMask([]byte("世界"), "0123456789abcdef")
		assert.Equal(t, "世…abcdef", mask)
	})

	t.Run("token shorter than suffix length is used whole", func(t *testing.T) {
		mask := DeriveMask([]byte("x"), "abc")
		assert.Equal(t, "x…abc", mask)
	})

	t.Run("mask never reveals more than the first rune", func(t *testing.T) {
		mask := DeriveMask([]byte("secret-value"), "fedcba9876543210")
		assert.Equal(t, "s…543210", mask)
	})
}
