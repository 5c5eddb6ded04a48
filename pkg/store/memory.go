package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rackworks/rackviz/pkg/rack"
)

// MemoryStore keeps racks in process memory. Used for development and
// tests; every access copies the record so callers cannot mutate the
// stored state behind the lock.
type MemoryStore struct {
	mu    sync.RWMutex
	racks map[string]*RackRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{racks: make(map[string]*RackRecord)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*RackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.racks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*RackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RackRecord, 0, len(s.racks))
	for _, rec := range s.racks {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rack.Name < out[j].Rack.Name })
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, r *rack.Rack) (*RackRecord, error) {
	now := time.Now().UTC()
	rec := &RackRecord{
		ID:        uuid.NewString(),
		Rack:      cloneRack(r),
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.Rack.ID = rec.ID

	s.mu.Lock()
	s.racks[rec.ID] = rec
	s.mu.Unlock()
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, r *rack.Rack) (*RackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.racks[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Rack = cloneRack(r)
	rec.Rack.ID = id
	rec.UpdatedAt = time.Now().UTC()
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.racks[id]; !ok {
		return ErrNotFound
	}
	delete(s.racks, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func cloneRecord(rec *RackRecord) *RackRecord {
	out := *rec
	out.Rack = cloneRack(&rec.Rack)
	return &out
}

func cloneRack(r *rack.Rack) rack.Rack {
	out := *r
	out.Devices = append([]rack.PlacedDevice(nil), r.Devices...)
	out.Cables = append([]rack.Cable(nil), r.Cables...)
	return out
}

// Ensure MemoryStore implements RackStore.
var _ RackStore = (*MemoryStore)(nil)
