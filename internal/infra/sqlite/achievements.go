package sqlite

import (
	"time"

	"github.com/rally-social/pulse/internal/domain"
)

// ─── User Achievements ──────────────────────────────────────────────────────

// InsertUserAchievement records an unlock for a user. Returns false when
// the pair already exists (idempotent): the composite primary key makes
// two overlapping unlock attempts collapse into one row, and the loser
// sees isNew == false rather than an error.
func (d *DB) InsertUserAchievement(userID, key string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_achievements (user_id, achievement_key, unlocked_at)
		 VALUES (?, ?, ?)`,
		userID, key, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// UnlockedKeys returns the set of achievement keys a user has earned.
func (d *DB) UnlockedKeys(userID string) (map[string]bool, error) {
	rows, err := d.db.Query(
		`SELECT achievement_key FROM user_achievements WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = true
	}
	return keys, rows.Err()
}

// ListUserAchievements returns a user's unlocks joined with catalog
// metadata, newest first.
func (d *DB) ListUserAchievements(userID string) ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT ua.achievement_key, a.title, a.description, a.icon, a.category, ua.unlocked_at
		 FROM user_achievements ua
		 JOIN achievements a ON a.key = ua.achievement_key
		 WHERE ua.user_id = ?
		 ORDER BY ua.unlocked_at DESC, ua.achievement_key`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UnlockedAchievement
	for rows.Next() {
		var ua domain.UnlockedAchievement
		var unlockedAt int64
		if err := rows.Scan(&ua.Key, &ua.Title, &ua.Description, &ua.Icon, &ua.Category, &unlockedAt); err != nil {
			return nil, err
		}
		ua.UnlockedAt = time.Unix(unlockedAt, 0).UTC()
		out = append(out, ua)
	}
	return out, rows.Err()
}

// UnlockedCount returns how many achievements a user has earned.
func (d *DB) UnlockedCount(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM user_achievements WHERE user_id = ?`, userID,
	).Scan(&count)
	return count, err
}
