package service

// AEAD is an authenticated-encryption cipher bound to a single key.
type AEAD interface {
	// Encrypt seals plaintext and returns the ciphertext and the nonce used.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and opens ciphertext under the given nonce.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)

	// NonceSize returns the size, in bytes, of the nonce this cipher requires.
	NonceSize() int
}
