package commands

import (
	"fmt"
	"time"

	"github.com/allisson/magentadb/internal/store"
)

// RunStats prints the store's counters and timestamps.
func RunStats(s *store.Store, io IOTuple) error {
	stats := s.Stats()

	_, _ = fmt.Fprintf(io.Writer, "Documents:        %d\n", stats.DocumentCount)
	_, _ = fmt.Fprintf(io.Writer, "Fields:           %d\n", stats.FieldCount)
	_, _ = fmt.Fprintf(io.Writer, "Unique tokens:    %d\n", stats.UniqueTokenCount)
	_, _ = fmt.Fprintf(io.Writer, "Ciphertext bytes: %d\n", stats.TotalCiphertextBytes)
	_, _ = fmt.Fprintf(io.Writer, "Created at:       %s\n", stats.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(io.Writer, "Last modified:    %s\n", stats.LastModified.Format(time.RFC3339))
	return nil
}
