package domain

import "unicode/utf8"

// TokenHexLength is the length, in characters, of a field's canonical hex token.
const TokenHexLength = 16

// NonceLength is the required length, in bytes, of a field's AEAD nonce.
const NonceLength = 24

// maskSuffixLength is the number of trailing token characters kept in a mask.
const maskSuffixLength = 6

// EncryptedField is the at-rest and in-memory representation of one named
// field on a document: its sealed ciphertext, the nonce it was sealed under,
// the deterministic search token derived from its plaintext, and a cosmetic
// display mask.
type EncryptedField struct {
	Ciphertext []byte
	Nonce      []byte
	Token      string
	Mask       string
}

// Document is an identifier plus a mapping from field name to EncryptedField.
// The model is pure data; all mutation is mediated by the store.
type Document struct {
	ID     string
	Fields map[string]EncryptedField
}

// NewDocument creates an empty Document with the given id.
func NewDocument(id string) *Document {
	return &Document{
		ID:     id,
		Fields: make(map[string]EncryptedField),
	}
}

// DeriveMask computes a field's display mask from its plaintext and token.
// The mask is first-rune(plaintext) + "…" + last-6-chars(token), or just
// "…" + last-6-chars(token) when plaintext is empty or does not start with a
// valid UTF-8 rune. Only the first rune (code point) is kept, so a grapheme
// built from several code points contributes its first one alone. Mask is purely
// cosmetic and non-reversible; it is never consulted for correctness and may
// be recomputed at any time.
func DeriveMask(plaintext []byte, token string) string {
	suffix := token
	if len(suffix) > maskSuffixLength {
		suffix = suffix[len(suffix)-maskSuffixLength:]
	}

	if len(plaintext) == 0 {
		return "…" + suffix
	}

	r, _ := utf8.DecodeRune(plaintext)
	if r == utf8.RuneError {
		return "…" + suffix
	}

	return string(r) + "…" + suffix
}
