// Package snapshot implements the store's on-disk format: a self-describing
// JSON object holding every document, the master key, and bookkeeping
// timestamps. The inverse index is never persisted; it is rebuilt on load.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	errByteArrayRange    = errors.New("byte array entry out of range 0..255")
	errByteArrayNotArray = errors.New("byte array must be a JSON array")
)

// ByteArray marshals as a JSON array of small unsigned integers (e.g.
// [1, 2, 3]) rather than the base64 string encoding/json gives []byte by
// default. The wire schema requires ciphertext, nonces, and the secret key
// to be literal u8 arrays.
type ByteArray []byte

// MarshalJSON renders the byte array as a JSON array of numbers.
func (b ByteArray) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(itoa(v))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON array of numbers in 0..=255 into a ByteArray.
// Any entry outside that range, or a non-array value, is rejected. Decoding
// through []int rather than []byte matters: encoding/json special-cases
// []byte as a base64 string, which is exactly the wire format this type
// exists to avoid.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	if nums == nil {
		return errByteArrayNotArray
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return errByteArrayRange
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

func itoa(v byte) string {
	if v < 10 {
		return string([]byte{'0' + v})
	}
	if v < 100 {
		return string([]byte{'0' + v/10, '0' + v%10})
	}
	return string([]byte{'0' + v/100, '0' + (v/10)%10, '0' + v%10})
}
