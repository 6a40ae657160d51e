package store

import (
	"sort"
	"sync"
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/magentadb/internal/crypto/domain"
	"github.com/allisson/magentadb/internal/crypto/service"
	docDomain "github.com/allisson/magentadb/internal/document/domain"
	"github.com/allisson/magentadb/internal/errors"
	appValidation "github.com/allisson/magentadb/internal/validation"
)

// tokenSet is the inverse index's value type: the set of doc_ids that
// currently carry a field whose plaintext tokenizes to a given token.
type tokenSet map[string]struct{}

// InsertOutcome reports whether Insert created a brand-new document or
// updated (replaced a field on, or added a field to) an existing one.
type InsertOutcome int

const (
	// Created means the (doc_id, field_name) write created a new document.
	Created InsertOutcome = iota
	// Updated means the document already existed; the field was added or replaced.
	Updated
)

// String renders the outcome the way the insert command logs it.
func (o InsertOutcome) String() string {
	if o == Created {
		return "created"
	}
	return "updated"
}

// FieldSummary is the verbose per-field detail List reports.
type FieldSummary struct {
	Name             string
	Token            string
	CiphertextLength int
	Mask             string
}

// DocumentSummary is one entry of List's output.
type DocumentSummary struct {
	ID         string
	FieldCount int
	Fields     []FieldSummary // populated only when List is called with verbose=true
}

// Stats is the snapshot of store-wide counters returned by Store.Stats.
type Stats struct {
	DocumentCount        int
	FieldCount           int
	UniqueTokenCount     int
	TotalCiphertextBytes int64
	CreatedAt            time.Time
	LastModified         time.Time
}

// Persister is invoked after a successful in-memory mutation so the caller
// may durably record the new state. A Persister error is surfaced as ErrIO
// but never rolls back the mutation that already completed in memory.
type Persister interface {
	Persist(s *Store) error
}

// Store owns the master key, the document map, and the inverse token index,
// and serves every read/write operation with the locking discipline the
// concurrency model requires: a document's shard guard is always acquired
// before the inverse-index shard guards for the tokens its mutation touches,
// and those inverse-index shards are always locked in one ascending order so
// two concurrent mutations can never deadlock against each other.
type Store struct {
	cipher    service.AEAD
	tokenizer service.Tokenizer
	key       []byte

	docs    *ShardedMap[*docDomain.Document]
	inverse *ShardedMap[tokenSet]

	statsMu sync.Mutex
	stats   Stats

	persisterMu sync.RWMutex
	persister   Persister
}

// New creates an empty Store bound to key, cipher, and tokenizer, with fresh
// created_at/last_modified timestamps. now is supplied by the caller rather
// than read internally, keeping the store itself free of a wall-clock
// dependency.
func New(key []byte, cipher service.AEAD, tokenizer service.Tokenizer, now time.Time) *Store {
	return &Store{
		cipher:    cipher,
		tokenizer: tokenizer,
		key:       key,
		docs:      NewShardedMap[*docDomain.Document](),
		inverse:   NewShardedMap[tokenSet](),
		stats: Stats{
			CreatedAt:    now,
			LastModified: now,
		},
	}
}

// SetPersister installs the optional persistence sink invoked after every
// successful mutation. Passing nil disables persistence.
func (s *Store) SetPersister(p Persister) {
	s.persisterMu.Lock()
	defer s.persisterMu.Unlock()
	s.persister = p
}

// Key returns a copy of the master key, for callers that must persist it
// (e.g. the snapshot codec). Zeroing the returned copy leaves the store's own
// key intact; Wipe clears that.
func (s *Store) Key() []byte {
	out := make([]byte, len(s.key))
	copy(out, s.key)
	return out
}

// Wipe overwrites the store's in-memory copy of the master key with zeros.
// Callers should invoke this once on shutdown, after any final persistence.
func (s *Store) Wipe() {
	cryptoDomain.Zero(s.key)
}

func (s *Store) persist() error {
	s.persisterMu.RLock()
	p := s.persister
	s.persisterMu.RUnlock()
	if p == nil {
		return nil
	}
	if err := p.Persist(s); err != nil {
		return errors.Wrap(errors.ErrIO, err.Error())
	}
	return nil
}

func validateDocID(docID string) error {
	err := validation.Validate(docID, validation.Required.Error("doc_id is required"))
	return appValidation.WrapValidationError(err)
}

// Insert encrypts plaintext, tokenizes it under the store's master key, and
// installs it as field_name on doc_id, creating the document if it did not
// already exist. If a field already existed at that location, its old token
// is removed from the inverse index (and the bucket dropped if it becomes
// empty) in the same atomic transition that installs the new one.
func (s *Store) Insert(docID, fieldName, plaintext string) (InsertOutcome, error) {
	if err := validateDocID(docID); err != nil {
		return Created, err
	}

	plaintextBytes := []byte(plaintext)
	ciphertext, nonce, err := s.cipher.Encrypt(plaintextBytes)
	if err != nil {
		return Created, err
	}
	token, err := s.tokenizer.Tokenize(s.key, plaintextBytes)
	if err != nil {
		return Created, err
	}
	mask := docDomain.DeriveMask(plaintextBytes, token)

	newField := docDomain.EncryptedField{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Token:      token,
		Mask:       mask,
	}

	docShardIdx := s.docs.ShardIndex(docID)
	unlockDoc := s.docs.LockShards([]int{docShardIdx})

	docs := s.docs.DataFor(docShardIdx)
	doc, existed := docs[docID]

	outcome := Updated
	var oldField docDomain.EncryptedField
	var hadOldField bool
	if !existed {
		doc = docDomain.NewDocument(docID)
		docs[docID] = doc
		outcome = Created
	} else {
		oldField, hadOldField = doc.Fields[fieldName]
	}

	tokenIndices := []int{s.inverse.ShardIndex(token)}
	if hadOldField && oldField.Token != token {
		tokenIndices = append(tokenIndices, s.inverse.ShardIndex(oldField.Token))
	}
	unlockInverse := s.inverse.LockShards(tokenIndices)

	if hadOldField {
		s.removeFromInverseLocked(oldField.Token, docID)
	}
	doc.Fields[fieldName] = newField
	s.addToInverseLocked(token, docID)

	deltaFields := 1
	deltaBytes := int64(len(ciphertext))
	if hadOldField {
		deltaFields = 0
		deltaBytes -= int64(len(oldField.Ciphertext))
	}
	deltaDocs := 0
	if outcome == Created {
		deltaDocs = 1
	}
	unlockInverse()
	s.updateStatsLocked(deltaDocs, deltaFields, deltaBytes)

	unlockDoc()

	// The persistence sink is invoked as the final, isolable step after the
	// in-memory mutation completes and every shard lock has been released, so
	// a slow sink never stalls unrelated readers or writers.
	if err := s.persist(); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// removeFromInverseLocked drops docID from token's bucket, deleting the
// bucket entirely if it becomes empty. Caller must hold the write lock on
// the inverse-index shard that owns token.
func (s *Store) removeFromInverseLocked(token, docID string) {
	idx := s.inverse.ShardIndex(token)
	buckets := s.inverse.DataFor(idx)
	set, ok := buckets[token]
	if !ok {
		return
	}
	delete(set, docID)
	if len(set) == 0 {
		delete(buckets, token)
	}
}

// addToInverseLocked adds docID to token's bucket, creating it if absent.
// Caller must hold the write lock on the inverse-index shard that owns token.
func (s *Store) addToInverseLocked(token, docID string) {
	idx := s.inverse.ShardIndex(token)
	buckets := s.inverse.DataFor(idx)
	set, ok := buckets[token]
	if !ok {
		set = make(tokenSet)
		buckets[token] = set
	}
	set[docID] = struct{}{}
}

// updateStatsLocked applies deltas to the store's counters under statsMu,
// recounts unique tokens with inverse.Len() (which read-locks every
// inverse-index shard in turn), and stamps last_modified. Callers invoke it
// after releasing their inverse-index shard locks but while still holding the
// document shard lock for the mutation that produced the deltas.
func (s *Store) updateStatsLocked(deltaDocs, deltaFields int, deltaBytes int64) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.DocumentCount += deltaDocs
	s.stats.FieldCount += deltaFields
	s.stats.TotalCiphertextBytes += deltaBytes
	s.stats.UniqueTokenCount = s.inverse.Len()
	s.stats.LastModified = s.now()
}

// now returns the timestamp stamped on the store's last_modified field by
// the mutation currently in flight.
func (s *Store) now() time.Time {
	return time.Now().UTC()
}

// Show returns a read-only snapshot of doc_id's masked fields.
func (s *Store) Show(docID string) (map[string]string, error) {
	idx := s.docs.ShardIndex(docID)
	unlock := s.docs.RLockShards([]int{idx})
	defer unlock()

	docs := s.docs.DataFor(idx)
	doc, ok := docs[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}

	out := make(map[string]string, len(doc.Fields))
	for name, field := range doc.Fields {
		out[name] = field.Mask
	}
	return out, nil
}

// Query tokenizes plaintext under the master key and returns every doc_id
// whose inverse-index bucket for that token is non-empty, sorted ascending
// by UTF-8 byte order. Returns an empty, non-nil slice if nothing matches.
func (s *Store) Query(plaintext string) ([]string, error) {
	token, err := s.tokenizer.Tokenize(s.key, []byte(plaintext))
	if err != nil {
		return nil, err
	}

	idx := s.inverse.ShardIndex(token)
	unlock := s.inverse.RLockShards([]int{idx})
	defer unlock()

	buckets := s.inverse.DataFor(idx)
	set, ok := buckets[token]
	if !ok {
		return []string{}, nil
	}

	out := make([]string, 0, len(set))
	for docID := range set {
		out = append(out, docID)
	}
	sort.Strings(out)
	return out, nil
}

// Decrypt looks up field_name on doc_id and returns its decrypted plaintext.
func (s *Store) Decrypt(docID, fieldName string) (string, error) {
	idx := s.docs.ShardIndex(docID)
	unlock := s.docs.RLockShards([]int{idx})

	docs := s.docs.DataFor(idx)
	doc, ok := docs[docID]
	if !ok {
		unlock()
		return "", ErrDocumentNotFound
	}
	field, ok := doc.Fields[fieldName]
	if !ok {
		unlock()
		return "", ErrFieldNotFound
	}
	ciphertext := append([]byte(nil), field.Ciphertext...)
	nonce := append([]byte(nil), field.Nonce...)
	unlock()

	plaintext, err := s.cipher.Decrypt(ciphertext, nonce)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// List returns a deterministically ordered summary of every document,
// sorted ascending by doc_id. When verbose is false, each summary carries
// only the doc_id and field count; when true, it also carries per-field
// (name, token, ciphertext length, mask).
func (s *Store) List(verbose bool) []DocumentSummary {
	var out []DocumentSummary
	for shardIdx := range s.docs.ShardCount() {
		s.docs.RangeShard(shardIdx, func(docID string, doc *docDomain.Document) {
			summary := DocumentSummary{ID: docID, FieldCount: len(doc.Fields)}
			if verbose {
				summary.Fields = make([]FieldSummary, 0, len(doc.Fields))
				for name, field := range doc.Fields {
					summary.Fields = append(summary.Fields, FieldSummary{
						Name:             name,
						Token:            field.Token,
						CiphertextLength: len(field.Ciphertext),
						Mask:             field.Mask,
					})
				}
				sort.Slice(summary.Fields, func(i, j int) bool {
					return summary.Fields[i].Name < summary.Fields[j].Name
				})
			}
			out = append(out, summary)
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes doc_id if present, dropping it from every token bucket its
// fields belonged to (and dropping any bucket that becomes empty). Reports
// whether a document was actually removed.
func (s *Store) Remove(docID string) (bool, error) {
	docShardIdx := s.docs.ShardIndex(docID)
	unlockDoc := s.docs.LockShards([]int{docShardIdx})

	docs := s.docs.DataFor(docShardIdx)
	doc, ok := docs[docID]
	if !ok {
		unlockDoc()
		return false, nil
	}

	tokenIndices := make([]int, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		tokenIndices = append(tokenIndices, s.inverse.ShardIndex(field.Token))
	}
	unlockInverse := s.inverse.LockShards(tokenIndices)

	var removedBytes int64
	for _, field := range doc.Fields {
		s.removeFromInverseLocked(field.Token, docID)
		removedBytes += int64(len(field.Ciphertext))
	}
	delete(docs, docID)

	unlockInverse()
	s.updateStatsLocked(-1, -len(doc.Fields), -removedBytes)

	unlockDoc()

	if err := s.persist(); err != nil {
		return true, err
	}
	return true, nil
}

// Clear atomically empties both the document map and the inverse index,
// returning the document count as it stood immediately before clearing.
func (s *Store) Clear() (int, error) {
	docUnlocks := make([]func(), s.docs.ShardCount())
	for i := range s.docs.ShardCount() {
		docUnlocks[i] = s.docs.LockShards([]int{i})
	}
	invUnlocks := make([]func(), s.inverse.ShardCount())
	for i := range s.inverse.ShardCount() {
		invUnlocks[i] = s.inverse.LockShards([]int{i})
	}

	s.statsMu.Lock()
	count := s.stats.DocumentCount
	s.statsMu.Unlock()

	for i := range s.docs.ShardCount() {
		data := s.docs.DataFor(i)
		for k := range data {
			delete(data, k)
		}
	}
	for i := range s.inverse.ShardCount() {
		data := s.inverse.DataFor(i)
		for k := range data {
			delete(data, k)
		}
	}

	s.statsMu.Lock()
	s.stats.DocumentCount = 0
	s.stats.FieldCount = 0
	s.stats.UniqueTokenCount = 0
	s.stats.TotalCiphertextBytes = 0
	s.stats.LastModified = s.now()
	s.statsMu.Unlock()

	for i := len(invUnlocks) - 1; i >= 0; i-- {
		invUnlocks[i]()
	}
	for i := len(docUnlocks) - 1; i >= 0; i-- {
		docUnlocks[i]()
	}

	if err := s.persist(); err != nil {
		return count, err
	}
	return count, nil
}

// Stats returns the current store-wide counters.
func (s *Store) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}
