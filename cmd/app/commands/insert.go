package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/magentadb/internal/store"
)

// RunInsert encrypts value and installs it as field_name on doc_id, creating
// the document if it did not already exist.
func RunInsert(s *store.Store, logger *slog.Logger, io IOTuple, docID, fieldName, value string) error {
	outcome, err := s.Insert(docID, fieldName, value)
	if err != nil {
		return err
	}

	logger.Info("document inserted",
		slog.String("doc_id", docID),
		slog.String("field_name", fieldName),
		slog.String("outcome", outcome.String()),
	)

	_, _ = fmt.Fprintf(io.Writer, "Inserted document '%s'\n", docID)
	return nil
}
