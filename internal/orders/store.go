package orders

import (
	"context"
	"sync"
	"time"
)

// Store is the order ledger contract: hand out the next sequence id and append
// immutable records. NextOrderID is called once per submission, not per line.
type Store interface {
	NextOrderID(ctx context.Context) (int64, error)
	Append(ctx context.Context, rec Record) error
}

// MemoryStore keeps the ledger in memory, for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	maxSeq  int64
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NextOrderID returns one more than the highest sequence id appended so far,
// or 1 for an empty ledger.
func (s *MemoryStore) NextOrderID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSeq + 1, nil
}

// Append adds a record to the ledger.
func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, rec)
	if rec.OrderSeq > s.maxSeq {
		s.maxSeq = rec.OrderSeq
	}
	return nil
}

// Records returns a copy of everything appended, in order.
func (s *MemoryStore) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

var _ Store = (*MemoryStore)(nil)
