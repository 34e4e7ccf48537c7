package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rally-social/pulse/internal/app/engagement"
	"github.com/rally-social/pulse/internal/domain"
)

// ─── Event Ingestion ─────────────────────────────────────────────────────────
// The engine is an auxiliary side effect of the primary action (creating
// or joining an activity), never a gate on it. Accepted events return 202;
// a duplicate delivery is still a 202 — the caller's action succeeded
// either way.

type eventRequest struct {
	UserID     string `json:"user_id"`
	ActivityID string `json:"activity_id"`
}

func (s *Server) handleActivityCreated(w http.ResponseWriter, r *http.Request) {
	s.handleEvent(w, r, s.engine.OnActivityCreated)
}

func (s *Server) handleActivityJoined(w http.ResponseWriter, r *http.Request) {
	s.handleEvent(w, r, s.engine.OnActivityJoined)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request, record func(string, string) error) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := record(req.UserID, req.ActivityID); err != nil {
		switch err {
		case domain.ErrEmptyUserID, domain.ErrEmptyActivityID:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// ─── User Reads ─────────────────────────────────────────────────────────────

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	stats, err := s.engine.GetUserStats(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":                stats,
		"points_to_next_level": engagement.PointsToNextLevel(stats.TotalPoints, stats.Level),
		"level_progress_pct":   engagement.LevelProgressPct(stats.TotalPoints, stats.Level),
	})
}

func (s *Server) handleUserAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": s.engine.GetUserAchievements(userID),
	})
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	entries, err := s.engine.PointsHistory(userID, queryInt(r, "limit", 25))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.PointsEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

// ─── Leaderboards ───────────────────────────────────────────────────────────

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	var rows []domain.UserStats
	by := r.URL.Query().Get("by")
	switch by {
	case "", "points":
		by = "points"
		rows = s.engine.Leaderboard(limit)
	case "creators":
		rows = s.engine.TopCreators(limit)
	case "joiners":
		rows = s.engine.TopJoiners(limit)
	default:
		writeError(w, http.StatusBadRequest, "unknown ranking: "+by)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"by":      by,
		"entries": rows,
	})
}

// ─── Levels & Catalog ───────────────────────────────────────────────────────

func (s *Server) handleLevelThreshold(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 {
		writeError(w, http.StatusBadRequest, "level must be a positive integer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":           level,
		"points_required": engagement.PointsForLevel(level),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": s.engine.Catalog(),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
