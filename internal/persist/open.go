package persist

import (
	"errors"
	"os"
	"time"

	cryptoDomain "github.com/allisson/magentadb/internal/crypto/domain"
	"github.com/allisson/magentadb/internal/crypto/service"
	apperrors "github.com/allisson/magentadb/internal/errors"
	"github.com/allisson/magentadb/internal/snapshot"
	"github.com/allisson/magentadb/internal/store"
)

// OpenStore implements the store's top-level Open(source?) operation against
// a filesystem path: if path exists, its bytes are decoded per the snapshot
// codec; otherwise a fresh store is created with a newly generated master
// key. The returned store has a FileSink for path already installed as its
// persister.
func OpenStore(path string) (*store.Store, error) {
	cipher, tokenizer, key, view, err := load(path)
	if err != nil {
		return nil, err
	}

	var s *store.Store
	if view != nil {
		s = store.Restore(view, cipher, tokenizer)
	} else {
		s = store.New(key, cipher, tokenizer, time.Now().UTC())
	}
	s.SetPersister(NewFileSink(path))
	return s, nil
}

func load(path string) (service.AEAD, service.Tokenizer, []byte, *store.SnapshotView, error) {
	tokenizer := service.NewBLAKE2bTokenizer()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		key, genErr := cryptoDomain.GenerateMasterKey()
		if genErr != nil {
			return nil, nil, nil, nil, genErr
		}
		cipher, cipherErr := service.NewXChaCha20Poly1305(key)
		if cipherErr != nil {
			return nil, nil, nil, nil, cipherErr
		}
		return cipher, tokenizer, key, nil, nil
	}
	if err != nil {
		return nil, nil, nil, nil, apperrors.Wrap(apperrors.ErrIO, err.Error())
	}
	defer file.Close()

	view, err := snapshot.Load(file)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cipher, err := service.NewXChaCha20Poly1305(view.SecretKey)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cipher, tokenizer, view.SecretKey, view, nil
}
