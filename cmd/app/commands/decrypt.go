package commands

import (
	"fmt"

	"github.com/allisson/magentadb/internal/store"
)

// RunDecrypt prints field_name's decrypted plaintext for doc_id.
func RunDecrypt(s *store.Store, io IOTuple, docID, fieldName string) error {
	plaintext, err := s.Decrypt(docID, fieldName)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(io.Writer, plaintext)
	return nil
}
