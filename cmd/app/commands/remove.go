package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/magentadb/internal/store"
)

// RunRemove deletes doc_id if present and reports whether anything was removed.
func RunRemove(s *store.Store, logger *slog.Logger, io IOTuple, docID string) error {
	removed, err := s.Remove(docID)
	if err != nil {
		return err
	}

	if !removed {
		return store.ErrDocumentNotFound
	}

	logger.Info("document removed", slog.String("doc_id", docID))
	_, _ = fmt.Fprintf(io.Writer, "Removed document '%s'\n", docID)
	return nil
}
