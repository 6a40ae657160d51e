package snapshot

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/magentadb/internal/crypto/service"
	docDomain "github.com/allisson/magentadb/internal/document/domain"
	apperrors "github.com/allisson/magentadb/internal/errors"
	"github.com/allisson/magentadb/internal/store"
)

// TestStoreSaveLoadRestore_Scenario5 proves the store-level invariant that a
// fresh store loaded from a saved snapshot answers queries identically to
// the original, purely from the reconstructed inverse index — without any
// further inserts.
func TestStoreSaveLoadRestore_Scenario5(t *testing.T) {
	key := make([]byte, secretKeyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := service.NewXChaCha20Poly1305(key)
	require.NoError(t, err)
	tokenizer := service.NewBLAKE2bTokenizer()

	original := store.New(key, cipher, tokenizer, time.Now().UTC())
	_, err = original.Insert("u1", "d", "Engineering")
	require.NoError(t, err)
	_, err = original.Insert("u2", "d", "Engineering")
	require.NoError(t, err)
	_, err = original.Insert("u3", "d", "Marketing")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, original.ExportSnapshot(), time.Now().UTC()))

	view, err := Load(&buf)
	require.NoError(t, err)

	restored := store.Restore(view, cipher, tokenizer)

	results, err := restored.Query("Engineering")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, results)

	results, err = restored.Query("Marketing")
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, results)

	assert.Equal(t, original.Stats().DocumentCount, restored.Stats().DocumentCount)
	assert.Equal(t, original.Stats().FieldCount, restored.Stats().FieldCount)
	assert.Equal(t, original.Stats().UniqueTokenCount, restored.Stats().UniqueTokenCount)
}

func newTestView(t *testing.T) *store.SnapshotView {
	t.Helper()
	key := make([]byte, secretKeyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	nonce := make([]byte, docDomain.NonceLength)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	cipher := append([]byte("ciphertext-bytes"), make([]byte, 16)...)

	now := time.Now().UTC().Truncate(time.Second)
	return &store.SnapshotView{
		SecretKey:    key,
		CreatedAt:    now,
		LastModified: now,
		Documents: map[string]*docDomain.Document{
			"doc1": {
				ID: "doc1",
				Fields: map[string]docDomain.EncryptedField{
					"name": {
						Ciphertext: cipher,
						Nonce:      nonce,
						Token:      "0123456789abcdef",
						Mask:       "a…bcdef",
					},
				},
			},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	view := newTestView(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, view.SecretKey, loaded.SecretKey)
	assert.True(t, view.CreatedAt.Equal(loaded.CreatedAt))
	require.Contains(t, loaded.Documents, "doc1")
	assert.Equal(t, view.Documents["doc1"].Fields["name"].Token, loaded.Documents["doc1"].Fields["name"].Token)
	assert.Equal(t, view.Documents["doc1"].Fields["name"].Ciphertext, loaded.Documents["doc1"].Fields["name"].Ciphertext)
}

func TestSave_ProducesExpectedSchemaKeys(t *testing.T) {
	view := newTestView(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	out := buf.String()
	for _, key := range []string{"documents", "secret_key", "version", "created_at", "last_modified", "cipher", "nonce", "token", "masked"} {
		assert.Contains(t, out, `"`+key+`"`)
	}
}

func TestLoad_RejectsWrongSecretKeyLength(t *testing.T) {
	view := newTestView(t)
	view.SecretKey = view.SecretKey[:16]

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	_, err := Load(&buf)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsWrongNonceLength(t *testing.T) {
	view := newTestView(t)
	field := view.Documents["doc1"].Fields["name"]
	field.Nonce = field.Nonce[:8]
	view.Documents["doc1"].Fields["name"] = field

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	_, err := Load(&buf)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsMalformedToken(t *testing.T) {
	view := newTestView(t)
	field := view.Documents["doc1"].Fields["name"]
	field.Token = "NOT-LOWERCASE-HEX"
	view.Documents["doc1"].Fields["name"] = field

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	_, err := Load(&buf)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsCipherShorterThanTag(t *testing.T) {
	view := newTestView(t)
	field := view.Documents["doc1"].Fields["name"]
	field.Ciphertext = []byte("short")
	view.Documents["doc1"].Fields["name"] = field

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, view.LastModified))

	_, err := Load(&buf)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsDuplicateTopLevelKey(t *testing.T) {
	raw := `{
		"documents": {},
		"secret_key": [` + strings.Repeat("0,", 31) + `0],
		"version": "1.0.0",
		"created_at": "2024-01-01T00:00:00Z",
		"last_modified": "2024-01-01T00:00:00Z",
		"version": "2.0.0"
	}`

	_, err := Load(strings.NewReader(raw))
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsUnknownTopLevelKey(t *testing.T) {
	raw := `{
		"documents": {},
		"secret_key": [` + strings.Repeat("0,", 31) + `0],
		"version": "1.0.0",
		"created_at": "2024-01-01T00:00:00Z",
		"last_modified": "2024-01-01T00:00:00Z",
		"unexpected_field": true
	}`

	_, err := Load(strings.NewReader(raw))
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsMalformedTimestamp(t *testing.T) {
	raw := `{
		"documents": {},
		"secret_key": [` + strings.Repeat("0,", 31) + `0],
		"version": "1.0.0",
		"created_at": "not-a-timestamp",
		"last_modified": "2024-01-01T00:00:00Z"
	}`

	_, err := Load(strings.NewReader(raw))
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_RejectsDocIDMismatch(t *testing.T) {
	raw := `{
		"documents": {
			"doc1": {"id": "doc2", "fields": {}}
		},
		"secret_key": [` + strings.Repeat("0,", 31) + `0],
		"version": "1.0.0",
		"created_at": "2024-01-01T00:00:00Z",
		"last_modified": "2024-01-01T00:00:00Z"
	}`

	_, err := Load(strings.NewReader(raw))
	assert.ErrorIs(t, err, apperrors.ErrSnapshotInvalid)
}

func TestLoad_EmptyStoreRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	view := &store.SnapshotView{
		SecretKey:    make([]byte, secretKeyLength),
		CreatedAt:    now,
		LastModified: now,
		Documents:    map[string]*docDomain.Document{},
	}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, view, now))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Empty(t, loaded.Documents)
}
