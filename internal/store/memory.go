package store

import (
	"context"
	"sort"
	"sync"
)

// record is one stored row: its fields keyed by name.
type record map[string][]byte

// MemoryAdapter is an in-memory reference Adapter, generalized from the
// teacher's storage.MemoryStore (a mutex-guarded map[string][]byte) to
// the full YCSB verb set plus range Scan, which requires the adapter to
// maintain keys in sorted order rather than relying on map iteration.
//
// Characteristics (same as the teacher's MemoryStore):
//   - All data stored in RAM; nothing survives process restart.
//   - Thread-safe via sync.RWMutex; reads may proceed concurrently,
//     writes are exclusive.
//   - Stored values are copied on the way in and out, so callers can't
//     mutate the adapter's internal state through a returned slice.
//
// Suitable for driving the generator in tests and the example binary;
// not a substitute for a real external store under test.
type MemoryAdapter struct {
	mu   sync.RWMutex
	rows map[string]record
	// keys is kept sorted so Scan can find a contiguous range without a
	// full scan of rows on every call.
	keys []string
}

// NewMemoryAdapter returns an empty, immediately-usable MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{rows: make(map[string]record)}
}

func (m *MemoryAdapter) Init(ctx context.Context) error  { return nil }
func (m *MemoryAdapter) Close(ctx context.Context) error { return nil }

func (m *MemoryAdapter) Read(ctx context.Context, table, key string, fields []string) (Status, []Field) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[key]
	if !ok {
		return NotFound, nil
	}
	return OK, selectFields(row, fields)
}

func (m *MemoryAdapter) Scan(ctx context.Context, table, startKey string, length int, fields []string) (Status, [][]Field) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := sort.SearchStrings(m.keys, startKey)
	out := make([][]Field, 0, length)
	for i := start; i < len(m.keys) && len(out) < length; i++ {
		out = append(out, selectFields(m.rows[m.keys[i]], fields))
	}
	return OK, out
}

func (m *MemoryAdapter) Update(ctx context.Context, table, key string, values []Field) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[key]
	if !ok {
		// Blind-write semantics: an update to a key that doesn't exist
		// yet behaves like an insert (spec.md §6: "adapters are free to
		// ... treat update as insert for blind-write stores").
		return m.insertLocked(key, values)
	}
	for _, f := range values {
		row[f.Name] = copyBytes(f.Value)
	}
	return OK
}

func (m *MemoryAdapter) Insert(ctx context.Context, table, key string, values []Field) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(key, values)
}

func (m *MemoryAdapter) insertLocked(key string, values []Field) Status {
	if _, exists := m.rows[key]; !exists {
		i := sort.SearchStrings(m.keys, key)
		m.keys = append(m.keys, "")
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	row := make(record, len(values))
	for _, f := range values {
		row[f.Name] = copyBytes(f.Value)
	}
	m.rows[key] = row
	return OK
}

func (m *MemoryAdapter) Delete(ctx context.Context, table, key string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[key]; !ok {
		return OK // idempotent, same as the teacher's MemoryStore.Delete
	}
	delete(m.rows, key)
	i := sort.SearchStrings(m.keys, key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	return OK
}

func (m *MemoryAdapter) Rmw(ctx context.Context, table, key string, readFields []string, writeValues []Field) Status {
	if status, _ := m.Read(ctx, table, key, readFields); status != OK {
		return status
	}
	return m.Update(ctx, table, key, writeValues)
}

// Len reports the number of records currently stored, for tests.
func (m *MemoryAdapter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func selectFields(row record, fields []string) []Field {
	if len(fields) == 0 {
		out := make([]Field, 0, len(row))
		for name, value := range row {
			out = append(out, Field{Name: name, Value: copyBytes(value)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	out := make([]Field, 0, len(fields))
	for _, name := range fields {
		if value, ok := row[name]; ok {
			out = append(out, Field{Name: name, Value: copyBytes(value)})
		}
	}
	return out
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
