// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store used by unit tests and as a development
// fallback when no cluster is configured. It mirrors the filter, sort and
// aggregation semantics of the Elasticsearch adapter.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
	}
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	fields := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		fields[k] = v
	}

	s.collections[collection] = append(s.collections[collection], Document{ID: id, Fields: fields})
	return id, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter map[string]interface{}, sortField string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if matchesFilter(doc, filter) {
			out = append(out, doc)
		}
	}

	if sortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].GetString(sortField) < out[j].GetString(sortField)
		})
	}

	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, doc := range s.collections[collection] {
		if matchesFilter(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) AggregateCounts(ctx context.Context, collection string, groupFields []string, filter map[string]interface{}) ([]GroupCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		keys  map[string]string
		count int64
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, doc := range s.collections[collection] {
		if !matchesFilter(doc, filter) {
			continue
		}

		keys := make(map[string]string, len(groupFields))
		composite := ""
		for _, field := range groupFields {
			v := doc.GetString(field)
			keys[field] = v
			composite += v + "\x00"
		}

		b, ok := buckets[composite]
		if !ok {
			b = &bucket{keys: keys}
			buckets[composite] = b
			order = append(order, composite)
		}
		b.count++
	}

	out := make([]GroupCount, 0, len(order))
	for _, composite := range order {
		b := buckets[composite]
		out = append(out, GroupCount{Keys: b.keys, Count: b.count})
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func matchesFilter(doc Document, filter map[string]interface{}) bool {
	for field, want := range filter {
		if doc.Fields[field] != want {
			return false
		}
	}
	return true
}
