package snapshot

import "github.com/allisson/magentadb/internal/errors"

// Domain-specific errors for snapshot decoding. All wrap the generic
// ErrSnapshotInvalid sentinel so callers can branch on either level.
var (
	// ErrDuplicateKey indicates the same top-level key appeared twice.
	ErrDuplicateKey = errors.Wrap(errors.ErrSnapshotInvalid, "duplicate top-level key")

	// ErrUnknownKey indicates an unrecognized top-level key was present.
	ErrUnknownKey = errors.Wrap(errors.ErrSnapshotInvalid, "unknown top-level key")

	// ErrMalformedSecretKey indicates secret_key did not decode to exactly 32 bytes.
	ErrMalformedSecretKey = errors.Wrap(errors.ErrSnapshotInvalid, "secret_key must have exactly 32 entries")

	// ErrMalformedNonce indicates a field's nonce did not decode to exactly 24 bytes.
	ErrMalformedNonce = errors.Wrap(errors.ErrSnapshotInvalid, "nonce must have exactly 24 entries")

	// ErrMalformedToken indicates a field's token was not 16 lowercase hex characters.
	ErrMalformedToken = errors.Wrap(errors.ErrSnapshotInvalid, "token must be 16 lowercase hex characters")

	// ErrCipherTooShort indicates a field's ciphertext was shorter than the
	// AEAD authentication tag, meaning it could never have been produced by Encrypt.
	ErrCipherTooShort = errors.Wrap(errors.ErrSnapshotInvalid, "cipher shorter than authentication tag")

	// ErrMalformedTimestamp indicates created_at or last_modified was not RFC 3339.
	ErrMalformedTimestamp = errors.Wrap(errors.ErrSnapshotInvalid, "timestamp is not RFC 3339")

	// ErrDocIDMismatch indicates a document's embedded id did not match its map key.
	ErrDocIDMismatch = errors.Wrap(errors.ErrSnapshotInvalid, "document id does not match its key")
)
