package hass

import (
	"context"
	"time"
)

// HistoryEntry is one persisted entity state snapshot.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	EntityID  string    `json:"entity_id"`
	State     State     `json:"state"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore persists entity state writes.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryStore interface {
	// RecordState stores a full state snapshot for an entity.
	RecordState(ctx context.Context, entityID string, state State, source string) error

	// LatestState returns the most recent snapshot, or ErrNoHistory.
	LatestState(ctx context.Context, entityID string) (State, error)

	// History returns up to limit snapshots, newest first.
	History(ctx context.Context, entityID string, limit int) ([]HistoryEntry, error)
}
