package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rally-social/pulse/internal/domain"
)

// ─── Points Ledger / Award Transaction ──────────────────────────────────────

// ApplyEvent persists one event's point grants: the full user_stats row
// and every points_history entry succeed or fail together in a single
// transaction. No orphaned ledger entries, no balance change without an
// audit row, and no partially applied event — a failed event leaves
// nothing behind for a retry to double-count.
func (d *DB) ApplyEvent(stats domain.UserStats, entries []domain.PointsEntry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin award tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO user_stats (user_id, total_points, activities_created, activities_joined,
			current_streak, longest_streak, last_activity_day, level, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			total_points=excluded.total_points,
			activities_created=excluded.activities_created,
			activities_joined=excluded.activities_joined,
			current_streak=excluded.current_streak,
			longest_streak=excluded.longest_streak,
			last_activity_day=excluded.last_activity_day,
			level=excluded.level,
			updated_at=excluded.updated_at`,
		stats.UserID, stats.TotalPoints, stats.ActivitiesCreated, stats.ActivitiesJoined,
		stats.CurrentStreak, stats.LongestStreak, stats.LastActivityDay, stats.Level,
		stats.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}

	for _, entry := range entries {
		meta, err := marshalMetadata(entry.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO points_history (id, user_id, points, reason, activity_id, achievement_key, metadata, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.Points, string(entry.Reason),
			nullStr(entry.ActivityID), nullStr(entry.AchievementKey), meta, entry.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("append points history: %w", err)
		}
	}

	return tx.Commit()
}

// ApplyAward persists a single point grant.
func (d *DB) ApplyAward(stats domain.UserStats, entry domain.PointsEntry) error {
	return d.ApplyEvent(stats, []domain.PointsEntry{entry})
}

// EventRecorded reports whether a ledger entry already exists for the
// given (user, reason, activity) triple. Used to ignore duplicate event
// deliveries before any counter is touched.
func (d *DB) EventRecorded(userID string, reason domain.Reason, activityID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM points_history WHERE user_id = ? AND reason = ? AND activity_id = ?`,
		userID, string(reason), activityID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PointsHistory returns recent ledger entries for a user, newest first.
func (d *DB) PointsHistory(userID string, limit int) ([]domain.PointsEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, points, reason, activity_id, achievement_key, metadata, created_at
		 FROM points_history WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.PointsEntry
	for rows.Next() {
		var e domain.PointsEntry
		var activityID, achievementKey, meta sql.NullString
		var createdAt int64
		err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Reason,
			&activityID, &achievementKey, &meta, &createdAt)
		if err != nil {
			return nil, err
		}
		if activityID.Valid {
			e.ActivityID = activityID.String
		}
		if achievementKey.Valid {
			e.AchievementKey = achievementKey.String
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for entry %s: %w", e.ID, err)
			}
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalMetadata(m map[string]string) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
