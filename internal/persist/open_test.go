package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_CreatesFreshWhenFileAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "magentadb.json")

	s, err := OpenStore(path)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Zero(t, stats.DocumentCount)
	assert.Len(t, s.Key(), 32)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenStore_RestoresFromExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "magentadb.json")

	original, err := OpenStore(path)
	require.NoError(t, err)
	_, err = original.Insert("doc", "field", "hello world")
	require.NoError(t, err)

	reopened, err := OpenStore(path)
	require.NoError(t, err)

	results, err := reopened.Query("hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, results)

	plaintext, err := reopened.Decrypt("doc", "field")
	require.NoError(t, err)
	assert.Equal(t, "hello world", plaintext)
}

func TestOpenStore_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "magentadb.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	_, err := OpenStore(path)
	assert.Error(t, err)
}
