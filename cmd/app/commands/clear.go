package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/magentadb/internal/store"
)

// RunClear empties the store, prompting for interactive confirmation unless
// force is set, and reports the number of documents removed.
func RunClear(s *store.Store, logger *slog.Logger, io IOTuple, force bool) error {
	if !force {
		confirmed, err := confirmClear(io)
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(io.Writer, "Aborted")
			return nil
		}
	}

	count, err := s.Clear()
	if err != nil {
		return err
	}

	logger.Info("store cleared", slog.Int("removed", count))
	_, _ = fmt.Fprintf(io.Writer, "Removed %d document(s)\n", count)
	return nil
}

func confirmClear(io IOTuple) (bool, error) {
	_, _ = fmt.Fprint(io.Writer, "This will remove all documents. Continue? (y/n): ")
	reader := bufio.NewReader(io.Reader)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
