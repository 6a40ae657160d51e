package commands

import (
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allisson/magentadb/internal/crypto/service"
	"github.com/allisson/magentadb/internal/store"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := service.NewXChaCha20Poly1305(key)
	require.NoError(t, err)
	tokenizer := service.NewBLAKE2bTokenizer()

	return store.New(key, cipher, tokenizer, time.Now().UTC())
}
