package engagement

import (
	"log"

	"github.com/rally-social/pulse/internal/domain"
	"github.com/rally-social/pulse/internal/infra/metrics"
)

// ─── Leaderboard Projections ────────────────────────────────────────────────
// Read-only rankings over user_stats. Failures degrade to an empty board
// with a logged warning — a broken leaderboard must never surface as an
// error to the UI.

const (
	defaultBoardLimit = 10
	maxBoardLimit     = 100
)

// Leaderboard returns users ranked by total points descending.
func (e *Engine) Leaderboard(limit int) []domain.UserStats {
	return e.board("points", limit, e.db.TopByPoints)
}

// TopCreators returns users ranked by activities created descending.
func (e *Engine) TopCreators(limit int) []domain.UserStats {
	return e.board("creators", limit, e.db.TopByCreated)
}

// TopJoiners returns users ranked by activities joined descending.
func (e *Engine) TopJoiners(limit int) []domain.UserStats {
	return e.board("joiners", limit, e.db.TopByJoined)
}

func (e *Engine) board(name string, limit int, query func(int) ([]domain.UserStats, error)) []domain.UserStats {
	metrics.LeaderboardQueries.WithLabelValues(name).Inc()

	rows, err := query(normalizeLimit(limit))
	if err != nil {
		log.Printf("[engagement] WARNING: leaderboard %s query: %v", name, err)
		return []domain.UserStats{}
	}
	if rows == nil {
		rows = []domain.UserStats{}
	}
	return rows
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultBoardLimit
	}
	if limit > maxBoardLimit {
		return maxBoardLimit
	}
	return limit
}
