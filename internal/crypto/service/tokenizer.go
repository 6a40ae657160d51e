package service

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	cryptoDomain "github.com/allisson/magentadb/internal/crypto/domain"
	"github.com/allisson/magentadb/internal/errors"
)

// tokenizeLabel domain-separates the tokenizer's subkey from the master key used
// for AEAD: the tokenizer never runs the master key through the MAC directly.
const tokenizeLabel = "magentadb-tokenize-v1"

// tokenByteLength is the number of raw MAC bytes kept before hex-encoding,
// yielding the 16-lowercase-hex-character canonical token.
const tokenByteLength = 8

// Tokenizer derives a deterministic, key-dependent search token for a plaintext value.
type Tokenizer interface {
	// Tokenize returns the 16-lowercase-hex-character token for plaintext under key.
	Tokenize(key, plaintext []byte) (string, error)
}

// BLAKE2bTokenizer implements Tokenizer with a keyed BLAKE2b MAC.
//
// Tokenization is deliberately deterministic: the same (key, plaintext) pair
// always produces the same token, which is what makes O(1) exact-match lookup
// possible. This leaks equality of plaintexts across fields within one store,
// but reveals nothing without the key. The plaintext is tokenized as its exact
// UTF-8 byte sequence — no case-folding, whitespace collapse, or Unicode
// normalization is applied.
type BLAKE2bTokenizer struct{}

// NewBLAKE2bTokenizer creates a new BLAKE2bTokenizer.
func NewBLAKE2bTokenizer() *BLAKE2bTokenizer {
	return &BLAKE2bTokenizer{}
}

// Tokenize derives a per-purpose subkey from key via a keyed BLAKE2b over a fixed
// label, then computes a keyed BLAKE2b MAC of plaintext under that subkey. The
// first tokenByteLength bytes of the MAC are hex-encoded as the canonical token.
func (t *BLAKE2bTokenizer) Tokenize(key, plaintext []byte) (string, error) {
	if len(key) != cryptoDomain.MasterKeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}

	subKey, err := t.deriveSubKey(key)
	if err != nil {
		return "", err
	}

	mac, err := blake2b.New256(subKey)
	if err != nil {
		return "", errors.Wrap(cryptoDomain.ErrInvalidKeySize, err.Error())
	}
	// Hash.Write never returns an error.
	_, _ = mac.Write(plaintext)
	sum := mac.Sum(nil)

	return hex.EncodeToString(sum[:tokenByteLength]), nil
}

// deriveSubKey produces a 32-byte subkey bound to tokenizeLabel, so that the
// same master key used for AEAD is never fed directly into the tokenizer's MAC.
func (t *BLAKE2bTokenizer) deriveSubKey(key []byte) ([]byte, error) {
	mac, err := blake2b.New256(key)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrInvalidKeySize, err.Error())
	}
	_, _ = mac.Write([]byte(tokenizeLabel))
	return mac.Sum(nil), nil
}
