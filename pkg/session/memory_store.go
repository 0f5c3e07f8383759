package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore keeps records in process memory. It serves single instance
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryEntry
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
	now     func() time.Time
}

// NewMemoryStore creates a store. A positive cleanupInterval starts a
// background sweep of expired records; Close stops it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		records: make(map[string]memoryEntry),
		done:    make(chan struct{}),
		now:     time.Now,
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop(store.ticker)
	}

	return store
}

// Put stores a copy of rec under a fresh key.
func (m *MemoryStore) Put(_ context.Context, rec Record, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidRecord
	}
	key := uuid.NewString()
	rec.Key = ""

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[key]; exists {
		return "", ErrKeyCollision
	}
	m.records[key] = memoryEntry{record: rec, expiresAt: m.now().Add(ttl)}
	return key, nil
}

// Get returns a copy of the record.
func (m *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	m.mu.RLock()
	entry, exists := m.records[key]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.records, key)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	rec := entry.record
	rec.Key = key
	return &rec, nil
}

// Delete removes a record.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

// DeleteExpired removes all expired records.
func (m *MemoryStore) DeleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.records {
		if !now.Before(entry.expiresAt) {
			delete(m.records, key)
		}
	}
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop(ticker *time.Ticker) {
	for {
		select {
		case <-ticker.C:
			m.DeleteExpired()
		case <-m.done:
			return
		}
	}
}
