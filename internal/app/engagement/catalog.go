package engagement

import "github.com/rally-social/pulse/internal/domain"

// ─── Achievement Catalog ────────────────────────────────────────────────────
// Declarative table: each entry pairs display metadata with a predicate
// over a UserStats snapshot. Adding an achievement means adding a row
// here, nothing else.

// DefaultCatalog returns the full achievement catalog in stable unlock
// evaluation order.
func DefaultCatalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Creation ───────────────────────────────────────────────────
		{
			Key: "first_plan", Title: "First Plan", Category: domain.CategoryCreation,
			Icon: "🎯", Description: "Created your first activity.", Bonus: 25,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesCreated >= 1 },
		},
		{
			Key: "organizer_5", Title: "Organizer", Category: domain.CategoryCreation,
			Icon: "📋", Description: "Created 5 activities.", PointsRequired: 250, Bonus: 50,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesCreated >= 5 },
		},
		{
			Key: "organizer_25", Title: "Community Builder", Category: domain.CategoryCreation,
			Icon: "🏗️", Description: "Created 25 activities.", PointsRequired: 1250, Bonus: 150,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesCreated >= 25 },
		},
		{
			Key: "organizer_100", Title: "Scene Maker", Category: domain.CategoryCreation,
			Icon: "🌆", Description: "Created 100 activities.", PointsRequired: 5000, Bonus: 500,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesCreated >= 100 },
		},

		// ── Participation ──────────────────────────────────────────────
		{
			Key: "first_join", Title: "Joiner", Category: domain.CategoryParticipation,
			Icon: "👋", Description: "Joined your first activity.", Bonus: 25,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesJoined >= 1 },
		},
		{
			Key: "joiner_10", Title: "Regular", Category: domain.CategoryParticipation,
			Icon: "🎪", Description: "Joined 10 activities.", PointsRequired: 250, Bonus: 50,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesJoined >= 10 },
		},
		{
			Key: "joiner_50", Title: "Social Butterfly", Category: domain.CategoryParticipation,
			Icon: "🦋", Description: "Joined 50 activities.", PointsRequired: 1250, Bonus: 150,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesJoined >= 50 },
		},
		{
			Key: "joiner_250", Title: "Everywhere", Category: domain.CategoryParticipation,
			Icon: "🌍", Description: "Joined 250 activities.", PointsRequired: 6250, Bonus: 500,
			Predicate: func(s domain.UserStats) bool { return s.ActivitiesJoined >= 250 },
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			Key: "streak_3", Title: "Warming Up", Category: domain.CategoryStreak,
			Icon: "🔥", Description: "3 days active in a row.", Bonus: 30,
			Predicate: func(s domain.UserStats) bool { return s.CurrentStreak >= 3 },
		},
		{
			Key: "streak_7", Title: "Week Warrior", Category: domain.CategoryStreak,
			Icon: "💪", Description: "7 days active in a row.", Bonus: 100,
			Predicate: func(s domain.UserStats) bool { return s.CurrentStreak >= 7 },
		},
		{
			Key: "streak_30", Title: "Monthly Machine", Category: domain.CategoryStreak,
			Icon: "🏛️", Description: "30 days active in a row.", Bonus: 500,
			Predicate: func(s domain.UserStats) bool { return s.CurrentStreak >= 30 },
		},
		{
			Key: "streak_100", Title: "Centurion", Category: domain.CategoryStreak,
			Icon: "⭐", Description: "100 days active in a row.", Bonus: 2000,
			Predicate: func(s domain.UserStats) bool { return s.LongestStreak >= 100 },
		},

		// ── Social ─────────────────────────────────────────────────────
		{
			Key: "level_5", Title: "Rising Star", Category: domain.CategorySocial,
			Icon: "🌅", Description: "Reached level 5.", PointsRequired: 337, Bonus: 50,
			Predicate: func(s domain.UserStats) bool { return s.Level >= 5 },
		},
		{
			Key: "level_10", Title: "Local Legend", Category: domain.CategorySocial,
			Icon: "🎖️", Description: "Reached level 10.", PointsRequired: 2562, Bonus: 200,
			Predicate: func(s domain.UserStats) bool { return s.Level >= 10 },
		},
		{
			Key: "points_1000", Title: "Point Collector", Category: domain.CategorySocial,
			Icon: "💎", Description: "Earned 1,000 lifetime points.", PointsRequired: 1000, Bonus: 100,
			Predicate: func(s domain.UserStats) bool { return s.TotalPoints >= 1000 },
		},
		{
			Key: "points_10000", Title: "Point Hoarder", Category: domain.CategorySocial,
			Icon: "👑", Description: "Earned 10,000 lifetime points.", PointsRequired: 10000, Bonus: 1000,
			Predicate: func(s domain.UserStats) bool { return s.TotalPoints >= 10000 },
		},
	}
}

// validateCatalog rejects duplicate keys; evaluation order and the
// unlock fixed point both assume keys are unique.
func validateCatalog(defs []domain.AchievementDef) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Key] {
			return domain.ErrDuplicateKey
		}
		seen[def.Key] = true
	}
	return nil
}
