// Package engagement implements the Pulse engagement engine: point
// grants, the level curve, calendar-day streaks, and the achievement
// unlock fixed point.
package engagement

import "time"

// dayLayout is the canonical calendar-day key. Days are compared as UTC
// dates — one timezone for every user, never ambient server time.
const dayLayout = "2006-01-02"

// dayKey returns the UTC calendar day for a point in time.
func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// StreakChange is the outcome of advancing a streak for one event day.
type StreakChange struct {
	Current int
	Longest int
	// Counted is false when the event day was already counted (same-day
	// repeat); the streak state is then unchanged and no bonus is due.
	Counted bool
}

// BonusEligible reports whether this change earns a streak bonus. The
// first day of a fresh streak earns none.
func (c StreakChange) BonusEligible() bool {
	return c.Counted && c.Current > 1
}

// AdvanceStreak decides the streak transition for an event at the given
// time, against the pre-update last-activity day:
//
//	lastDay == today      → unchanged, not counted
//	lastDay == yesterday  → extend
//	anything else         → reset to 1 (gap of 2+ days, or no prior day)
//
// Longest is raised to cover the new current, so current ≤ longest holds
// after every update.
func AdvanceStreak(lastDay string, at time.Time, current, longest int) StreakChange {
	today := dayKey(at)
	if lastDay == today {
		return StreakChange{Current: current, Longest: longest, Counted: false}
	}

	// Yesterday is derived in UTC as well; AddDate on a wall clock in a
	// DST-observing zone can land on the wrong UTC day near midnight.
	next := 1
	if lastDay == dayKey(at.UTC().AddDate(0, 0, -1)) {
		next = current + 1
	}

	if next > longest {
		longest = next
	}
	return StreakChange{Current: next, Longest: longest, Counted: true}
}
