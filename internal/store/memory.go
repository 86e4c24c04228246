package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/lacquerlab/salon-scheduler/internal/models"
)

// MemoryStore is an in-process Store with the same whole-document and
// versioning semantics as the Postgres one. Used by tests and by local runs
// without a database.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]memRecord
}

type memRecord struct {
	doc     []byte
	version int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]memRecord)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*models.Tenant, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	var t models.Tenant
	if err := json.Unmarshal(rec.doc, &t); err != nil {
		return nil, 0, err
	}
	return &t, rec.version, nil
}

func (s *MemoryStore) Save(_ context.Context, t *models.Tenant, version int64) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.recs[t.ID]
	if version == 0 {
		if ok {
			return ErrVersionConflict
		}
		s.recs[t.ID] = memRecord{doc: doc, version: 1}
		return nil
	}
	if !ok || cur.version != version {
		return ErrVersionConflict
	}
	s.recs[t.ID] = memRecord{doc: doc, version: version + 1}
	return nil
}

func (s *MemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.recs))
	for id := range s.recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Compile-time check
var _ Store = (*MemoryStore)(nil)
