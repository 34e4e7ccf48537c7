// Package domain holds the engagement engine's core types.
// Types are plain structs with no infrastructure dependency; the engine,
// storage, and API layers all speak in terms of these.
package domain

import "time"

// ─── Points Reasons ─────────────────────────────────────────────────────────

// Reason classifies why a points grant was made.
type Reason string

const (
	ReasonActivityCreated     Reason = "activity_created"
	ReasonActivityJoined      Reason = "activity_joined"
	ReasonStreakBonus         Reason = "streak_bonus"
	ReasonAchievementUnlocked Reason = "achievement_unlocked"
	ReasonManualGrant         Reason = "manual_grant"
)

// ─── User Stats ─────────────────────────────────────────────────────────────

// UserStats is the mutable per-user aggregate. One row per user, lazily
// created on the first qualifying event and mutated only by the engine.
// TotalPoints, the activity counters, and LongestStreak never decrease.
type UserStats struct {
	UserID            string    `json:"user_id"`
	TotalPoints       int64     `json:"total_points"`
	ActivitiesCreated int64     `json:"activities_created"`
	ActivitiesJoined  int64     `json:"activities_joined"`
	CurrentStreak     int       `json:"current_streak"`
	LongestStreak     int       `json:"longest_streak"`
	LastActivityDay   string    `json:"last_activity_day,omitempty"` // "YYYY-MM-DD" in UTC, "" before first event
	Level             int       `json:"level"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ─── Points Ledger ──────────────────────────────────────────────────────────

// PointsEntry is one append-only ledger row. Entries are immutable once
// written; the ledger is the audit source of truth for every grant.
type PointsEntry struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Points         int64             `json:"points"`
	Reason         Reason            `json:"reason"`
	ActivityID     string            `json:"activity_id,omitempty"`
	AchievementKey string            `json:"achievement_key,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CategoryCreation      AchievementCategory = "creation"
	CategoryParticipation AchievementCategory = "participation"
	CategoryStreak        AchievementCategory = "streak"
	CategorySocial        AchievementCategory = "social"
)

// AchievementDef defines a single achievement. The unlock condition is a
// predicate over a UserStats snapshot, so the catalog is data-driven and
// extensible without touching engine code.
type AchievementDef struct {
	Key            string               `json:"key"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Icon           string               `json:"icon"`
	Category       AchievementCategory  `json:"category"`
	PointsRequired int64                `json:"points_required"` // informational, shown in UI
	Bonus          int64                `json:"bonus"`           // 0 = engine default bonus
	Predicate      func(UserStats) bool `json:"-"`
}

// UnlockedAchievement joins a user to an earned achievement, carrying the
// catalog metadata for display. Unlocking is one-way: at most one row per
// (user, achievement) pair, ever.
type UnlockedAchievement struct {
	Key         string              `json:"key"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	UnlockedAt  time.Time           `json:"unlocked_at"`
}
