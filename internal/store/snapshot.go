package store

import (
	"time"

	"github.com/allisson/magentadb/internal/crypto/service"
	docDomain "github.com/allisson/magentadb/internal/document/domain"
)

// SnapshotView is the data the snapshot codec needs to serialize a store's
// state, and the data it hands back after decoding one. It carries no
// behavior: the store decides what is trustworthy to accept on restore.
type SnapshotView struct {
	SecretKey    []byte
	CreatedAt    time.Time
	LastModified time.Time
	Documents    map[string]*docDomain.Document
}

// ExportSnapshot gathers a SnapshotView of the store's current state,
// reading every document shard under its own read lock in turn. The view is
// not a single linearization point across the whole store, consistent with
// the rest of the store's read operations.
func (s *Store) ExportSnapshot() *SnapshotView {
	view := &SnapshotView{
		SecretKey: s.Key(),
		Documents: make(map[string]*docDomain.Document),
	}

	for shardIdx := range s.docs.ShardCount() {
		s.docs.RangeShard(shardIdx, func(docID string, doc *docDomain.Document) {
			fields := make(map[string]docDomain.EncryptedField, len(doc.Fields))
			for name, field := range doc.Fields {
				fields[name] = docDomain.EncryptedField{
					Ciphertext: append([]byte(nil), field.Ciphertext...),
					Nonce:      append([]byte(nil), field.Nonce...),
					Token:      field.Token,
					Mask:       field.Mask,
				}
			}
			view.Documents[docID] = &docDomain.Document{ID: docID, Fields: fields}
		})
	}

	stats := s.Stats()
	view.CreatedAt = stats.CreatedAt
	view.LastModified = stats.LastModified
	return view
}

// Restore rebuilds a Store from a previously decoded SnapshotView, trusting
// every field's token and mask as-is: it does not re-tokenize or re-derive
// masks, and it does not attempt to decrypt anything. The inverse index is
// rebuilt by walking every field's token.
func Restore(view *SnapshotView, cipher service.AEAD, tokenizer service.Tokenizer) *Store {
	s := New(view.SecretKey, cipher, tokenizer, view.CreatedAt)
	s.stats.LastModified = view.LastModified

	fieldCount := 0
	var totalBytes int64
	for docID, doc := range view.Documents {
		s.docs.Set(docID, doc)
		for _, field := range doc.Fields {
			s.addToInverseLocked(field.Token, docID)
			fieldCount++
			totalBytes += int64(len(field.Ciphertext))
		}
	}

	s.statsMu.Lock()
	s.stats.DocumentCount = len(view.Documents)
	s.stats.FieldCount = fieldCount
	s.stats.TotalCiphertextBytes = totalBytes
	s.stats.UniqueTokenCount = s.inverse.Len()
	s.statsMu.Unlock()

	return s
}
