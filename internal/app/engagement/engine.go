package engagement

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rally-social/pulse/internal/domain"
	"github.com/rally-social/pulse/internal/infra/metrics"
	"github.com/rally-social/pulse/internal/infra/sqlite"
)

// Rewards holds the point amounts the engine grants per event kind.
type Rewards struct {
	CreatePoints      int64
	JoinPoints        int64
	StreakBonusPerDay int64
	// AchievementBonus is the default bonus for catalog entries that do
	// not set their own.
	AchievementBonus int64
}

// DefaultRewards returns the standard reward amounts.
func DefaultRewards() Rewards {
	return Rewards{
		CreatePoints:      50,
		JoinPoints:        25,
		StreakBonusPerDay: 10,
		AchievementBonus:  25,
	}
}

// Engine converts qualifying events into durable stats changes: counters,
// streaks, point grants, level recomputation, and achievement unlocks.
//
// All writes for one user run under that user's lock, covering the full
// read-modify-write-append sequence including the unlock fixed point.
// Two concurrent events for the same user therefore serialize instead of
// overwriting each other's increments; events for different users do not
// contend.
type Engine struct {
	db      *sqlite.DB
	catalog []domain.AchievementDef
	rewards Rewards

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an engine over the default catalog.
func New(db *sqlite.DB, rewards Rewards) (*Engine, error) {
	return NewWithCatalog(db, rewards, DefaultCatalog())
}

// NewWithCatalog creates an engine over a custom catalog and seeds the
// catalog's display metadata into storage.
func NewWithCatalog(db *sqlite.DB, rewards Rewards, catalog []domain.AchievementDef) (*Engine, error) {
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}
	if err := db.SeedAchievements(catalog); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return &Engine{
		db:      db,
		catalog: catalog,
		rewards: rewards,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Catalog returns the achievement definitions (for display).
func (e *Engine) Catalog() []domain.AchievementDef {
	return e.catalog
}

// userLock returns the mutex serializing writes for one user.
func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	mu, ok := e.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[userID] = mu
	}
	return mu
}

// ─── Event Entry Points ─────────────────────────────────────────────────────

// OnActivityCreated records that a user created an activity.
func (e *Engine) OnActivityCreated(userID, activityID string) error {
	return e.OnActivityCreatedAt(userID, activityID, time.Now())
}

// OnActivityCreatedAt is OnActivityCreated with an explicit clock.
func (e *Engine) OnActivityCreatedAt(userID, activityID string, now time.Time) error {
	return e.onActivity(userID, activityID, domain.ReasonActivityCreated, e.rewards.CreatePoints, now)
}

// OnActivityJoined records that a user joined an activity.
func (e *Engine) OnActivityJoined(userID, activityID string) error {
	return e.OnActivityJoinedAt(userID, activityID, time.Now())
}

// OnActivityJoinedAt is OnActivityJoined with an explicit clock.
func (e *Engine) OnActivityJoinedAt(userID, activityID string, now time.Time) error {
	return e.onActivity(userID, activityID, domain.ReasonActivityJoined, e.rewards.JoinPoints, now)
}

// onActivity is the shared event flow: dedup, streak advance, counter
// increment, streak bonus, base grant, unlock fixed point. The activity
// ID doubles as the idempotency token — a second delivery of the same
// logical event is ignored, never double-counted.
func (e *Engine) onActivity(userID, activityID string, reason domain.Reason, basePoints int64, now time.Time) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if activityID == "" {
		return domain.ErrEmptyActivityID
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	seen, err := e.db.EventRecorded(userID, reason, activityID)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if seen {
		metrics.EventsDuplicate.WithLabelValues(string(reason)).Inc()
		log.Printf("[engagement] duplicate %s for user=%s activity=%s ignored", reason, userID, activityID)
		return nil
	}

	stats, err := e.db.GetUserStats(userID)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	// Streak is decided against the pre-update last-activity day, once
	// per qualifying event.
	change := AdvanceStreak(stats.LastActivityDay, now, stats.CurrentStreak, stats.LongestStreak)
	stats.CurrentStreak = change.Current
	stats.LongestStreak = change.Longest
	stats.LastActivityDay = dayKey(now)

	switch reason {
	case domain.ReasonActivityCreated:
		stats.ActivitiesCreated++
	case domain.ReasonActivityJoined:
		stats.ActivitiesJoined++
	}

	// One transaction carries the whole event: counter and streak
	// mutations, the streak bonus when due, and the base grant with the
	// dedup token. A partially persisted event would let a retry recount
	// the counters.
	var entries []domain.PointsEntry
	if change.BonusEligible() {
		bonus := e.rewards.StreakBonusPerDay * int64(change.Current)
		var entry domain.PointsEntry
		stats, entry, err = e.stageGrant(stats, domain.PointsEntry{
			Points:   bonus,
			Reason:   domain.ReasonStreakBonus,
			Metadata: map[string]string{"streak": fmt.Sprintf("%d", change.Current)},
		}, now)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	var base domain.PointsEntry
	stats, base, err = e.stageGrant(stats, domain.PointsEntry{
		Points:     basePoints,
		Reason:     reason,
		ActivityID: activityID,
	}, now)
	if err != nil {
		return err
	}
	entries = append(entries, base)

	if err := e.db.ApplyEvent(stats, entries); err != nil {
		metrics.AwardErrors.Inc()
		return fmt.Errorf("record %s for %s: %w", reason, userID, err)
	}
	for _, entry := range entries {
		metrics.PointsAwarded.WithLabelValues(string(entry.Reason)).Add(float64(entry.Points))
	}

	metrics.EventsProcessed.WithLabelValues(string(reason)).Inc()
	return e.unlockPassLocked(stats, now)
}

// ─── Point Grants ───────────────────────────────────────────────────────────

// AwardPoints grants points to a user outside the activity-event flow and
// runs the unlock evaluation. Exposed for operator tooling; the event
// entry points are the normal path.
func (e *Engine) AwardPoints(userID string, points int64, reason domain.Reason, metadata map[string]string) error {
	return e.AwardPointsAt(userID, points, reason, metadata, time.Now())
}

// AwardPointsAt is AwardPoints with an explicit clock.
func (e *Engine) AwardPointsAt(userID string, points int64, reason domain.Reason, metadata map[string]string, now time.Time) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	stats, err := e.db.GetUserStats(userID)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	stats, err = e.grantLocked(stats, domain.PointsEntry{
		Points:   points,
		Reason:   reason,
		Metadata: metadata,
	}, now)
	if err != nil {
		return err
	}
	return e.unlockPassLocked(stats, now)
}

// stageGrant validates one point grant and applies it to the in-memory
// stats: total, level, and a ledger entry ready for persistence.
func (e *Engine) stageGrant(stats domain.UserStats, entry domain.PointsEntry, now time.Time) (domain.UserStats, domain.PointsEntry, error) {
	if entry.Points <= 0 {
		return stats, entry, domain.ErrInvalidPoints
	}

	stats.TotalPoints += entry.Points
	stats.Level = LevelFor(stats.TotalPoints, stats.Level)
	stats.UpdatedAt = now

	entry.ID = uuid.NewString()
	entry.UserID = stats.UserID
	entry.CreatedAt = now
	return stats, entry, nil
}

// grantLocked stages and persists a single point grant in its own
// transaction. Caller holds the user lock. Returns the updated stats so
// cascading grants see fresh totals without re-reading.
func (e *Engine) grantLocked(stats domain.UserStats, entry domain.PointsEntry, now time.Time) (domain.UserStats, error) {
	stats, entry, err := e.stageGrant(stats, entry, now)
	if err != nil {
		return stats, err
	}

	if err := e.db.ApplyAward(stats, entry); err != nil {
		metrics.AwardErrors.Inc()
		return stats, fmt.Errorf("award %d points (%s) to %s: %w", entry.Points, entry.Reason, stats.UserID, err)
	}

	metrics.PointsAwarded.WithLabelValues(string(entry.Reason)).Add(float64(entry.Points))
	return stats, nil
}

// ─── Unlock Fixed Point ─────────────────────────────────────────────────────

// unlockPassLocked sweeps the catalog until no achievement newly
// qualifies. Each unlock inserts the user_achievements row before its
// bonus grant, so the one-way transition is established even if the
// grant's cascade is interrupted. Bonus points can satisfy further
// predicates, hence the outer loop; it terminates because the catalog is
// finite and every sweep either strictly shrinks the locked set or stops.
func (e *Engine) unlockPassLocked(stats domain.UserStats, now time.Time) error {
	unlocked, err := e.db.UnlockedKeys(stats.UserID)
	if err != nil {
		return fmt.Errorf("load unlocked set: %w", err)
	}

	sweeps := 0
	for range e.catalog {
		sweeps++
		newly := 0

		for _, def := range e.catalog {
			if unlocked[def.Key] || def.Predicate == nil || !def.Predicate(stats) {
				continue
			}

			isNew, err := e.db.InsertUserAchievement(stats.UserID, def.Key, now)
			if err != nil {
				return fmt.Errorf("unlock %s: %w", def.Key, err)
			}
			unlocked[def.Key] = true
			if !isNew {
				continue // concurrent evaluation won the race; already unlocked
			}

			bonus := def.Bonus
			if bonus == 0 {
				bonus = e.rewards.AchievementBonus
			}
			stats, err = e.grantLocked(stats, domain.PointsEntry{
				Points:         bonus,
				Reason:         domain.ReasonAchievementUnlocked,
				AchievementKey: def.Key,
			}, now)
			if err != nil {
				return err
			}

			metrics.AchievementsUnlocked.WithLabelValues(string(def.Category)).Inc()
			log.Printf("[engagement] user=%s unlocked %s (+%d pts)", stats.UserID, def.Key, bonus)
			newly++
		}

		if newly == 0 {
			break
		}
	}

	if len(e.catalog) > 0 {
		metrics.UnlockSweeps.Observe(float64(sweeps))
	}
	return nil
}

// ─── Reads ──────────────────────────────────────────────────────────────────

// GetUserStats returns a user's current standing. A user with no recorded
// events gets zero-valued defaults at level 1, not an error.
func (e *Engine) GetUserStats(userID string) (domain.UserStats, error) {
	return e.db.GetUserStats(userID)
}

// GetUserAchievements returns a user's unlocked achievements. Storage
// failures degrade to an empty list with a logged warning; this read
// feeds non-critical UI.
func (e *Engine) GetUserAchievements(userID string) []domain.UnlockedAchievement {
	list, err := e.db.ListUserAchievements(userID)
	if err != nil {
		log.Printf("[engagement] WARNING: list achievements for user=%s: %v", userID, err)
		return []domain.UnlockedAchievement{}
	}
	if list == nil {
		list = []domain.UnlockedAchievement{}
	}
	return list
}

// PointsHistory returns a user's recent ledger entries, newest first.
func (e *Engine) PointsHistory(userID string, limit int) ([]domain.PointsEntry, error) {
	return e.db.PointsHistory(userID, normalizeLimit(limit))
}
