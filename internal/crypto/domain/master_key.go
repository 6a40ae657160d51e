package domain

import (
	"crypto/rand"

	"github.com/allisson/magentadb/internal/errors"
)

// MasterKeySize is the required length, in bytes, of a store's master key.
const MasterKeySize = 32

// GenerateMasterKey returns MasterKeySize bytes of cryptographically secure
// random material, suitable for use as a store's master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(ErrRandomUnavailable, err.Error())
	}
	return key, nil
}
