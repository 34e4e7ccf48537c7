// Package sqlite provides SQLite-based persistent storage for Pulse.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/rally-social/pulse/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/pulse.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "pulse.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-user mutable aggregate. One row per user, lazily created on
		// the first qualifying event. Mutated only inside Award transactions.
		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id            TEXT PRIMARY KEY,
			total_points       INTEGER NOT NULL DEFAULT 0,
			activities_created INTEGER NOT NULL DEFAULT 0,
			activities_joined  INTEGER NOT NULL DEFAULT 0,
			current_streak     INTEGER NOT NULL DEFAULT 0,
			longest_streak     INTEGER NOT NULL DEFAULT 0,
			last_activity_day  TEXT NOT NULL DEFAULT '',
			level              INTEGER NOT NULL DEFAULT 1,
			updated_at         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_points ON user_stats(total_points DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_created ON user_stats(activities_created DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_joined ON user_stats(activities_joined DESC)`,

		// Append-only points ledger. Rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS points_history (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			points          INTEGER NOT NULL,
			reason          TEXT NOT NULL,
			activity_id     TEXT,
			achievement_key TEXT,
			metadata        TEXT,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON points_history(user_id, created_at)`,
		// Backstop against rewarding the same activity event twice. The engine
		// checks EventRecorded first; this index catches cross-process races.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_history_event
			ON points_history(user_id, reason, activity_id)
			WHERE activity_id IS NOT NULL`,

		// Static achievement catalog metadata, seeded from code at startup.
		// Unlock predicates live in code only.
		`CREATE TABLE IF NOT EXISTS achievements (
			key             TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			icon            TEXT NOT NULL DEFAULT '',
			category        TEXT NOT NULL,
			points_required INTEGER NOT NULL DEFAULT 0
		)`,

		// One-way unlocks. The composite primary key is the double-unlock
		// guard: INSERT OR IGNORE makes concurrent unlock attempts collapse
		// into a single row.
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id         TEXT NOT NULL,
			achievement_key TEXT NOT NULL,
			unlocked_at     INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_ach_user ON user_achievements(user_id, unlocked_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// SeedAchievements upserts catalog metadata rows. Predicates are not
// persisted; only the display fields live in the table.
func (d *DB) SeedAchievements(defs []domain.AchievementDef) error {
	for _, def := range defs {
		_, err := d.db.Exec(
			`INSERT INTO achievements (key, title, description, icon, category, points_required)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET
				title=excluded.title,
				description=excluded.description,
				icon=excluded.icon,
				category=excluded.category,
				points_required=excluded.points_required`,
			def.Key, def.Title, def.Description, def.Icon, string(def.Category), def.PointsRequired,
		)
		if err != nil {
			return fmt.Errorf("seed achievement %s: %w", def.Key, err)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
