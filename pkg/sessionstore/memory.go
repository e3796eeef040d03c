package sessionstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the encoded record in memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(_ context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return Record{}, ErrNotFound
	}
	return Decode(m.payload)
}

func (m *MemoryStore) Save(_ context.Context, r Record) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.payload = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.payload = nil
	m.mu.Unlock()
	return nil
}

// Put stores a raw payload, bypassing Encode. Tests use it to plant
// records written by older clients or corrupt data.
func (m *MemoryStore) Put(payload []byte) {
	m.mu.Lock()
	m.payload = append([]byte(nil), payload...)
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error { return nil }
