package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	docDomain "github.com/allisson/magentadb/internal/document/domain"
	"github.com/allisson/magentadb/internal/errors"
	"github.com/allisson/magentadb/internal/store"
)

// FormatVersion is the semver string stamped into every snapshot this codec
// writes. Load does not reject snapshots from other versions; it is carried
// for forward compatibility with a future, incompatible wire change.
const FormatVersion = "1.0.0"

const (
	secretKeyLength = 32
	tokenHexLength  = docDomain.TokenHexLength
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// knownTopLevelKeys are the only keys Load accepts in the top-level object.
var knownTopLevelKeys = map[string]bool{
	"documents":     true,
	"secret_key":    true,
	"version":       true,
	"created_at":    true,
	"last_modified": true,
}

type wireField struct {
	Cipher ByteArray `json:"cipher"`
	Nonce  ByteArray `json:"nonce"`
	Token  string    `json:"token"`
	Masked string    `json:"masked"`
}

type wireDocument struct {
	ID     string               `json:"id"`
	Fields map[string]wireField `json:"fields"`
}

type wireFile struct {
	Documents    map[string]wireDocument `json:"documents"`
	SecretKey    ByteArray               `json:"secret_key"`
	Version      string                  `json:"version"`
	CreatedAt    string                  `json:"created_at"`
	LastModified string                  `json:"last_modified"`
}

// Save serializes view's current state to w. The inverse index is not
// written; it is rebuilt by Load. last_modified is stamped as now; created_at
// is carried through unchanged.
func Save(w io.Writer, view *store.SnapshotView, now time.Time) error {
	file := wireFile{
		Documents:    make(map[string]wireDocument, len(view.Documents)),
		SecretKey:    ByteArray(view.SecretKey),
		Version:      FormatVersion,
		CreatedAt:    view.CreatedAt.UTC().Format(time.RFC3339),
		LastModified: now.UTC().Format(time.RFC3339),
	}

	for docID, doc := range view.Documents {
		fields := make(map[string]wireField, len(doc.Fields))
		for name, field := range doc.Fields {
			fields[name] = wireField{
				Cipher: ByteArray(field.Ciphertext),
				Nonce:  ByteArray(field.Nonce),
				Token:  field.Token,
				Masked: field.Mask,
			}
		}
		file.Documents[docID] = wireDocument{ID: docID, Fields: fields}
	}

	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrIO, err.Error())
	}
	if _, err := w.Write(encoded); err != nil {
		return errors.Wrap(errors.ErrIO, err.Error())
	}
	return nil
}

// Load parses and structurally validates a snapshot from r, then rebuilds
// the inverse index by walking every field's token. It does not recompute
// tokens or masks (they are trusted from the snapshot) and does not attempt
// to decrypt anything. On any structural problem it returns an error wrapping
// ErrSnapshotInvalid and the store refuses to open; there is no partial load.
func Load(r io.Reader) (*store.SnapshotView, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrIO, err.Error())
	}

	if err := checkTopLevelKeys(data); err != nil {
		return nil, err
	}

	var file wireFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrSnapshotInvalid, err.Error())
	}

	if len(file.SecretKey) != secretKeyLength {
		return nil, ErrMalformedSecretKey
	}

	createdAt, err := time.Parse(time.RFC3339, file.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedTimestamp, err.Error())
	}
	lastModified, err := time.Parse(time.RFC3339, file.LastModified)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedTimestamp, err.Error())
	}

	documents := make(map[string]*docDomain.Document, len(file.Documents))
	for docID, wireDoc := range file.Documents {
		if wireDoc.ID != docID {
			return nil, ErrDocIDMismatch
		}

		fields := make(map[string]docDomain.EncryptedField, len(wireDoc.Fields))
		for name, wf := range wireDoc.Fields {
			if len(wf.Nonce) != docDomain.NonceLength {
				return nil, ErrMalformedNonce
			}
			if len(wf.Token) != tokenHexLength || !tokenPattern.MatchString(wf.Token) {
				return nil, ErrMalformedToken
			}
			if len(wf.Cipher) < chacha20poly1305.Overhead {
				return nil, ErrCipherTooShort
			}
			fields[name] = docDomain.EncryptedField{
				Ciphertext: []byte(wf.Cipher),
				Nonce:      []byte(wf.Nonce),
				Token:      wf.Token,
				Mask:       wf.Masked,
			}
		}
		documents[docID] = &docDomain.Document{ID: docID, Fields: fields}
	}

	return &store.SnapshotView{
		SecretKey:    []byte(file.SecretKey),
		CreatedAt:    createdAt,
		LastModified: lastModified,
		Documents:    documents,
	}, nil
}

// checkTopLevelKeys walks the top-level JSON object's keys with a streaming
// token decoder to reject duplicate or unrecognized keys before the full
// typed decode runs; encoding/json's normal Unmarshal silently keeps the
// last value for a duplicate key, which the wire format's "duplicate keys
// are rejected" contract does not allow.
func checkTopLevelKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrSnapshotInvalid, err.Error())
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return errors.Wrap(errors.ErrSnapshotInvalid, "top-level value must be an object")
	}

	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(errors.ErrSnapshotInvalid, err.Error())
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Wrap(errors.ErrSnapshotInvalid, "top-level key must be a string")
		}
		if seen[key] {
			return ErrDuplicateKey
		}
		seen[key] = true
		if !knownTopLevelKeys[key] {
			return ErrUnknownKey
		}

		// Skip over this key's value without decoding it; we only need to
		// validate the key set here.
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrap(errors.ErrSnapshotInvalid, err.Error())
		}
	}

	return nil
}
