package engagement

import "math"

// Level curve: exponential thresholds, floor(100 * 1.5^(level-2)) points
// to reach each level from 2 upward. Level 1 is held at 0 points. The
// threshold sequence for levels 2,3,4,5 is 100, 150, 225, 337.

// maxLevel caps the curve at the last level whose threshold still fits
// in int64: floor(100*1.5^96) ≈ 7.5e18. Level 99 would overflow.
const maxLevel = 98

// PointsForLevel returns the cumulative points required to hold a level.
func PointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > maxLevel {
		level = maxLevel
	}
	return int64(math.Floor(100 * math.Pow(1.5, float64(level-2))))
}

// LevelFor returns the largest level whose threshold is at or below the
// given point total, advancing from the caller's current level upward.
// It never walks downward: points are monotone, so level is too.
func LevelFor(totalPoints int64, from int) int {
	level := from
	if level < 1 {
		level = 1
	}
	for level < maxLevel && PointsForLevel(level+1) <= totalPoints {
		level++
	}
	return level
}

// PointsToNextLevel returns points remaining until the next level, or 0
// at the level cap.
func PointsToNextLevel(totalPoints int64, level int) int64 {
	if level >= maxLevel {
		return 0
	}
	remaining := PointsForLevel(level+1) - totalPoints
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// LevelProgressPct returns progress toward the next level as 0.0–100.0.
func LevelProgressPct(totalPoints int64, level int) float64 {
	if level >= maxLevel {
		return 100.0
	}
	this := PointsForLevel(level)
	next := PointsForLevel(level + 1)
	span := next - this
	if span <= 0 {
		return 100.0
	}
	pct := float64(totalPoints-this) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
