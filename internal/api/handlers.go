package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/matrix-portal-core/internal/hass"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxNameLen          = 64

	// healthCheckTimeout bounds all dependency checks of one /health call.
	healthCheckTimeout = 2 * time.Second
)

// healthResponse is the /health body.
type healthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	RunID    string            `json:"run_id,omitempty"`
	Restarts uint64            `json:"restarts"`
	Checks   map[string]string `json:"checks,omitempty"`
}

// handleHealth reports ok, or 503 "degraded" when any dependency check fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	snap := s.status.Snapshot()
	resp := healthResponse{
		Status:   "ok",
		Version:  s.version,
		RunID:    snap.RunID,
		Restarts: snap.Restarts,
	}

	status := http.StatusOK
	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
		names := make([]string, 0, len(s.checks))
		for name := range s.checks {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := s.checks[name].HealthCheck(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}

// handleState returns the manager snapshot.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status.Snapshot())
}

// handleEntityHistory returns persisted states for one entity.
func (s *Server) handleEntityHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || len(name) > maxNameLen {
		writeBadRequest(w, "invalid entity name")
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "state history is disabled")
		return
	}

	if _, ok := s.status.Snapshot().Entities[name]; !ok {
		writeNotFound(w, "entity not found")
		return
	}

	entries, err := s.history.History(r.Context(), s.topics.EntityID(name), limit)
	if err != nil && !errors.Is(err, hass.ErrNoHistory) {
		s.logger.Error("failed to load entity history", "entity", name, "error", err)
		writeInternalError(w, "failed to load history")
		return
	}
	if entries == nil {
		entries = []hass.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity":  name,
		"history": entries,
		"count":   len(entries),
	})
}

// parseHistoryLimit parses ?limit=, defaulting to 50 and capping at 200.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return min(n, maxHistoryLimit), nil
}
