package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rally-social/pulse/internal/domain"
)

// ─── User Stats ─────────────────────────────────────────────────────────────

const statsColumns = `user_id, total_points, activities_created, activities_joined,
	current_streak, longest_streak, last_activity_day, level, updated_at`

// GetUserStats returns the stats row for a user, or zero-valued defaults
// (level 1) when no row exists. A missing row is not an error.
func (d *DB) GetUserStats(userID string) (domain.UserStats, error) {
	row := d.db.QueryRow(
		`SELECT `+statsColumns+` FROM user_stats WHERE user_id = ?`, userID,
	)
	stats, err := scanStats(row)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	if stats == nil {
		return domain.UserStats{UserID: userID, Level: 1}, nil
	}
	return *stats, nil
}

// TopByPoints returns up to limit users ordered by total points descending.
// Ties break by user_id ascending so rankings are stable across calls.
func (d *DB) TopByPoints(limit int) ([]domain.UserStats, error) {
	return d.topBy("total_points", limit)
}

// TopByCreated returns up to limit users ordered by activities created.
func (d *DB) TopByCreated(limit int) ([]domain.UserStats, error) {
	return d.topBy("activities_created", limit)
}

// TopByJoined returns up to limit users ordered by activities joined.
func (d *DB) TopByJoined(limit int) ([]domain.UserStats, error) {
	return d.topBy("activities_joined", limit)
}

func (d *DB) topBy(column string, limit int) ([]domain.UserStats, error) {
	// column is one of three fixed names chosen by the callers above,
	// never caller-supplied input.
	rows, err := d.db.Query(
		`SELECT `+statsColumns+` FROM user_stats
		 ORDER BY `+column+` DESC, user_id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserStats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanStats(s scanner) (*domain.UserStats, error) {
	var st domain.UserStats
	var updatedAt int64

	err := s.Scan(&st.UserID, &st.TotalPoints, &st.ActivitiesCreated, &st.ActivitiesJoined,
		&st.CurrentStreak, &st.LongestStreak, &st.LastActivityDay, &st.Level, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	st.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &st, nil
}
