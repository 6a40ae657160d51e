package commands

import (
	"fmt"

	"github.com/allisson/magentadb/internal/store"
)

// RunList prints a summary of every document, sorted ascending by doc_id.
// In verbose mode each field's name, token, ciphertext length, and mask are
// also shown.
func RunList(s *store.Store, io IOTuple, verbose bool) error {
	summaries := s.List(verbose)

	if len(summaries) == 0 {
		_, _ = fmt.Fprintln(io.Writer, "No documents found")
		return nil
	}

	for _, summary := range summaries {
		_, _ = fmt.Fprintf(io.Writer, "%s (%d field(s))\n", summary.ID, summary.FieldCount)
		for _, field := range summary.Fields {
			_, _ = fmt.Fprintf(io.Writer, "  %s: token=%s ciphertext_len=%d mask=%s\n",
				field.Name, field.Token, field.CiphertextLength, field.Mask)
		}
	}
	return nil
}
