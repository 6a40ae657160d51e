package commands

import (
	"fmt"
	"sort"

	"github.com/allisson/magentadb/internal/store"
)

// RunShow prints doc_id's masked fields, sorted by field name for
// deterministic output.
func RunShow(s *store.Store, io IOTuple, docID string) error {
	fields, err := s.Show(docID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintf(io.Writer, "Document '%s':\n", docID)
	for _, name := range names {
		_, _ = fmt.Fprintf(io.Writer, "  %s: %s\n", name, fields[name])
	}
	return nil
}
