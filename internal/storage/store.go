package storage

import (
	"context"

	"github.com/koti-agri/koti-backend/internal/models"
)

// DefaultMaxEntries bounds every conversation log backend
const DefaultMaxEntries = 1000

// ConversationStore is an append-only, bounded conversation log. Only the
// newest entries up to the configured cap are kept.
type ConversationStore interface {
	Name() string
	Append(ctx context.Context, entry models.ConversationLog) error
	Close() error
}

func normalizeCap(maxEntries int) int {
	if maxEntries <= 0 {
		return DefaultMaxEntries
	}
	return maxEntries
}

// trimOldest drops entries from the front until at most limit remain
func trimOldest(entries []models.ConversationLog, limit int) []models.ConversationLog {
	if len(entries) <= limit {
		return entries
	}
	kept := make([]models.ConversationLog, limit)
	copy(kept, entries[len(entries)-limit:])
	return kept
}
