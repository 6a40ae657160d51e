// Package domain defines core cryptographic domain models: the master key and
// the authenticated-encryption errors surfaced by the crypto service layer.
package domain

import (
	"github.com/allisson/magentadb/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrInvalidKeySize indicates the cryptographic key size is invalid (must be 32 bytes).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates decryption failed: authentication tag mismatch,
	// wrong key, or a malformed nonce/ciphertext length.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptoInvalid, "decryption failed")

	// ErrRandomUnavailable indicates the CSPRNG failed to produce key or nonce material.
	ErrRandomUnavailable = errors.Wrap(errors.ErrResourceUnavailable, "secure random source unavailable")
)
