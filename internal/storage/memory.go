package storage

import (
	"context"
	"sync"

	"github.com/koti-agri/koti-backend/internal/models"
)

// MemoryStore holds the conversation log in memory only
type MemoryStore struct {
	entries    []models.ConversationLog
	maxEntries int
	mu         sync.RWMutex
}

// NewMemoryStore creates a new in-memory conversation log
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{maxEntries: normalizeCap(maxEntries)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Append(_ context.Context, entry models.ConversationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = trimOldest(append(m.entries, entry), m.maxEntries)
	return nil
}

// Entries returns a copy of the log, oldest first
func (m *MemoryStore) Entries() []models.ConversationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ConversationLog, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MemoryStore) Close() error { return nil }
