package hass

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SQLiteHistory implements HistoryStore on the entity_state_history table.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory creates a history store on an open, migrated database.
func NewSQLiteHistory(db *sql.DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

// RecordState inserts a state snapshot.
func (h *SQLiteHistory) RecordState(ctx context.Context, entityID string, state State, source string) error {
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}
	if source == "" {
		source = SourceLocal
	}

	stateJSON, err := marshalState(state)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	_, err = h.db.ExecContext(ctx,
		"INSERT INTO entity_state_history (entity_id, state, source) VALUES (?, ?, ?)",
		entityID,
		string(stateJSON),
		source,
	)
	if err != nil {
		return fmt.Errorf("inserting entity state: %w", err)
	}
	return nil
}

// LatestState returns the newest snapshot for an entity.
func (h *SQLiteHistory) LatestState(ctx context.Context, entityID string) (State, error) {
	var stateJSON string
	err := h.db.QueryRowContext(ctx,
		`SELECT state FROM entity_state_history
		 WHERE entity_id = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		entityID,
	).Scan(&stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest entity state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("unmarshalling state: %w", err)
	}
	return state, nil
}

// History returns snapshots for an entity, newest first (default 50, max 200).
func (h *SQLiteHistory) History(ctx context.Context, entityID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, entity_id, state, source, created_at
		 FROM entity_state_history
		 WHERE entity_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		entityID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entity history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var stateJSON, createdAt string

		if err := rows.Scan(&entry.ID, &entry.EntityID, &stateJSON, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entity history: %w", err)
		}
		if err := json.Unmarshal([]byte(stateJSON), &entry.State); err != nil {
			return nil, fmt.Errorf("unmarshalling state: %w", err)
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity history: %w", err)
	}

	return entries, nil
}

// Prune deletes snapshots older than olderThan.
func (h *SQLiteHistory) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := h.db.ExecContext(ctx,
		"DELETE FROM entity_state_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting entity history: %w", err)
	}

	return result.RowsAffected()
}
