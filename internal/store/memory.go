package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// MemoryStore keeps the encoded document in memory. Loads decode a fresh copy
// so callers never share state.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreFrom seeds the store with raw document JSON, which may use the
// legacy schema.
func NewMemoryStoreFrom(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		doc := models.NewDocument(time.Now())
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		s.data = data
		return doc, nil
	}
	return decode(s.data)
}

func (s *MemoryStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if s.data != nil {
		stored, err := decode(s.data)
		if err != nil {
			return err
		}
		current = stored.Revision
	}
	if doc.Revision != current {
		return ErrConflict
	}

	doc.Revision++
	data, err := json.Marshal(doc)
	if err != nil {
		doc.Revision--
		return fmt.Errorf("encode document: %w", err)
	}
	s.data = data
	return nil
}
