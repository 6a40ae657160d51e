package commands

import (
	"fmt"

	"github.com/allisson/magentadb/internal/store"
)

// RunQuery prints the doc_ids whose fields' plaintext exactly equals value,
// sorted ascending by UTF-8 bytes, or a "no documents found" line.
func RunQuery(s *store.Store, io IOTuple, value string) error {
	docIDs, err := s.Query(value)
	if err != nil {
		return err
	}

	if len(docIDs) == 0 {
		_, _ = fmt.Fprintln(io.Writer, "No documents found")
		return nil
	}

	for _, docID := range docIDs {
		_, _ = fmt.Fprintln(io.Writer, docID)
	}
	return nil
}
