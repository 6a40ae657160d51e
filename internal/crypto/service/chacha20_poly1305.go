// Package service implements the authenticated-encryption and tokenization
// primitives the store builds on: an extended-nonce AEAD cipher and a
// keyed, deterministic tokenizer.
package service

import (
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/magentadb/internal/crypto/domain"
	"github.com/allisson/magentadb/internal/errors"
)

// XChaCha20Poly1305Cipher implements AEAD using XChaCha20-Poly1305: ChaCha20-Poly1305
// with a 192-bit (24-byte) extended nonce, wide enough to draw at random per field
// without a meaningful reuse risk across the lifetime of a store.
type XChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewXChaCha20Poly1305 creates a new XChaCha20-Poly1305 cipher bound to key.
// Returns ErrInvalidKeySize if key is not exactly 32 bytes.
func NewXChaCha20Poly1305(key []byte) (*XChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.MasterKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrInvalidKeySize, err.Error())
	}

	return &XChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a freshly drawn nonce and returns both.
// The ciphertext carries the Poly1305 authentication tag appended.
func (c *XChaCha20Poly1305Cipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, errors.Wrap(cryptoDomain.ErrRandomUnavailable, err.Error())
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt verifies the authentication tag and returns the plaintext.
// Returns ErrDecryptionFailed on tag mismatch or a malformed nonce/ciphertext length.
func (c *XChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// NonceSize returns the size, in bytes, of the nonce required by this cipher.
func (c *XChaCha20Poly1305Cipher) NonceSize() int {
	return c.aead.NonceSize()
}
