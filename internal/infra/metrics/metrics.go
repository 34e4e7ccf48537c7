// Package metrics provides Prometheus metrics for Pulse — counters and
// histograms for event ingestion, point grants, and achievement unlocks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Events ─────────────────────────────────────────────────────────────────

// EventsProcessed tracks qualifying events accepted by the engine.
var EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "events_processed_total",
	Help:      "Total qualifying events processed.",
}, []string{"reason"})

// EventsDuplicate tracks event deliveries ignored by the idempotency check.
var EventsDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "events_duplicate_total",
	Help:      "Total duplicate event deliveries ignored.",
}, []string{"reason"})

// ─── Points ─────────────────────────────────────────────────────────────────

// PointsAwarded tracks points granted by reason.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "points_awarded_total",
	Help:      "Total points granted.",
}, []string{"reason"})

// AwardErrors tracks failed grant attempts.
var AwardErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "award_errors_total",
	Help:      "Total point grants that failed at the storage layer.",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks newly unlocked achievements.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements newly unlocked.",
}, []string{"category"})

// UnlockSweeps tracks how many catalog sweeps each event needed before
// the unlock evaluation reached its fixed point.
var UnlockSweeps = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pulse",
	Name:      "unlock_sweeps_per_event",
	Help:      "Catalog sweeps per event until no achievement newly qualified.",
	Buckets:   []float64{1, 2, 3, 4, 5, 8, 13},
})

// ─── Leaderboards ───────────────────────────────────────────────────────────

// LeaderboardQueries tracks ranking reads by projection.
var LeaderboardQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "leaderboard_queries_total",
	Help:      "Total leaderboard reads.",
}, []string{"by"})
