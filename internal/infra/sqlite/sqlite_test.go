package sqlite_test

import (
	"testing"
	"time"

	"github.com/rally-social/pulse/internal/domain"
	"github.com/rally-social/pulse/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func award(t *testing.T, db *sqlite.DB, stats domain.UserStats, entry domain.PointsEntry) {
	t.Helper()
	if err := db.ApplyAward(stats, entry); err != nil {
		t.Fatalf("apply award: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close()

	// Migrations are idempotent; a second open over the same file works.
	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	if err := db2.Ping(); err != nil {
		t.Errorf("ping after reopen: %v", err)
	}
}

func TestGetUserStats_MissingRow(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.GetUserStats("ghost")
	if err != nil {
		t.Fatalf("missing row should not error: %v", err)
	}
	if stats.UserID != "ghost" || stats.Level != 1 || stats.TotalPoints != 0 {
		t.Errorf("expected level-1 defaults, got %+v", stats)
	}
}

func TestApplyAward_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	stats := domain.UserStats{
		UserID: "ana", TotalPoints: 50, ActivitiesCreated: 1,
		CurrentStreak: 1, LongestStreak: 1, LastActivityDay: "2026-03-02",
		Level: 1, UpdatedAt: now,
	}
	award(t, db, stats, domain.PointsEntry{
		ID: "e-1", UserID: "ana", Points: 50,
		Reason: domain.ReasonActivityCreated, ActivityID: "act-1",
		Metadata: map[string]string{"city": "lisbon"}, CreatedAt: now,
	})

	got, err := db.GetUserStats("ana")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalPoints != 50 || got.LastActivityDay != "2026-03-02" || got.CurrentStreak != 1 {
		t.Errorf("stats mismatch: %+v", got)
	}

	entries, err := db.PointsHistory("ana", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ActivityID != "act-1" || e.Metadata["city"] != "lisbon" {
		t.Errorf("entry mismatch: %+v", e)
	}
	if !e.CreatedAt.Equal(now) {
		t.Errorf("created_at mismatch: %v", e.CreatedAt)
	}
}

func TestApplyAward_SecondUpsertWins(t *testing.T) {
	db := newTestDB(t)

	stats := domain.UserStats{UserID: "ben", TotalPoints: 25, Level: 1, UpdatedAt: now}
	award(t, db, stats, domain.PointsEntry{
		ID: "e-1", UserID: "ben", Points: 25,
		Reason: domain.ReasonActivityJoined, ActivityID: "act-1", CreatedAt: now,
	})

	stats.TotalPoints = 120
	stats.Level = 2
	award(t, db, stats, domain.PointsEntry{
		ID: "e-2", UserID: "ben", Points: 95,
		Reason: domain.ReasonManualGrant, CreatedAt: now.Add(time.Minute),
	})

	got, _ := db.GetUserStats("ben")
	if got.TotalPoints != 120 || got.Level != 2 {
		t.Errorf("expected upsert to land 120/level 2, got %d/%d", got.TotalPoints, got.Level)
	}
	entries, _ := db.PointsHistory("ben", 10)
	if len(entries) != 2 {
		t.Errorf("ledger should keep both rows, got %d", len(entries))
	}
}

func TestEventRecorded(t *testing.T) {
	db := newTestDB(t)

	seen, err := db.EventRecorded("cam", domain.ReasonActivityCreated, "act-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if seen {
		t.Error("unrecorded event reported as seen")
	}

	award(t, db, domain.UserStats{UserID: "cam", TotalPoints: 50, Level: 1, UpdatedAt: now},
		domain.PointsEntry{ID: "e-1", UserID: "cam", Points: 50,
			Reason: domain.ReasonActivityCreated, ActivityID: "act-1", CreatedAt: now})

	seen, _ = db.EventRecorded("cam", domain.ReasonActivityCreated, "act-1")
	if !seen {
		t.Error("recorded event not reported as seen")
	}
	// Same activity under a different reason is a different event.
	seen, _ = db.EventRecorded("cam", domain.ReasonActivityJoined, "act-1")
	if seen {
		t.Error("join reported as seen after only a create")
	}
}

func TestApplyAward_DuplicateEventRejected(t *testing.T) {
	db := newTestDB(t)

	stats := domain.UserStats{UserID: "dia", TotalPoints: 50, Level: 1, UpdatedAt: now}
	award(t, db, stats, domain.PointsEntry{ID: "e-1", UserID: "dia", Points: 50,
		Reason: domain.ReasonActivityCreated, ActivityID: "act-1", CreatedAt: now})

	// The unique (user, reason, activity) index is the cross-process
	// backstop behind the engine's EventRecorded check.
	err := db.ApplyAward(stats, domain.PointsEntry{ID: "e-2", UserID: "dia", Points: 50,
		Reason: domain.ReasonActivityCreated, ActivityID: "act-1", CreatedAt: now.Add(time.Second)})
	if err == nil {
		t.Fatal("expected unique index violation for duplicate event")
	}

	entries, _ := db.PointsHistory("dia", 10)
	if len(entries) != 1 {
		t.Errorf("expected single ledger row, got %d", len(entries))
	}
}

func TestApplyEvent_AllOrNothing(t *testing.T) {
	db := newTestDB(t)

	stats := domain.UserStats{
		UserID: "ivy", TotalPoints: 25, ActivitiesJoined: 1,
		CurrentStreak: 1, LongestStreak: 1, LastActivityDay: "2026-03-02",
		Level: 1, UpdatedAt: now,
	}
	award(t, db, stats, domain.PointsEntry{ID: "e-1", UserID: "ivy", Points: 25,
		Reason: domain.ReasonActivityJoined, ActivityID: "act-1", CreatedAt: now})

	// A batch whose base entry collides with the unique event index must
	// leave nothing behind: not the bonus row, not the stats mutation.
	// Otherwise a retried event would recount the counters.
	bumped := stats
	bumped.TotalPoints = 70
	bumped.ActivitiesJoined = 2
	err := db.ApplyEvent(bumped, []domain.PointsEntry{
		{ID: "e-2", UserID: "ivy", Points: 20,
			Reason: domain.ReasonStreakBonus, CreatedAt: now.Add(time.Second)},
		{ID: "e-3", UserID: "ivy", Points: 25,
			Reason: domain.ReasonActivityJoined, ActivityID: "act-1", CreatedAt: now.Add(time.Second)},
	})
	if err == nil {
		t.Fatal("expected unique index violation for duplicate event")
	}

	got, _ := db.GetUserStats("ivy")
	if got.ActivitiesJoined != 1 || got.TotalPoints != 25 {
		t.Errorf("partial event persisted: %+v", got)
	}
	entries, _ := db.PointsHistory("ivy", 10)
	if len(entries) != 1 {
		t.Errorf("expected 1 ledger row, got %d", len(entries))
	}
}

func TestTopBy_Orderings(t *testing.T) {
	db := newTestDB(t)

	seed := []domain.UserStats{
		{UserID: "amy", TotalPoints: 100, ActivitiesCreated: 1, ActivitiesJoined: 5, Level: 2, UpdatedAt: now},
		{UserID: "bob", TotalPoints: 300, ActivitiesCreated: 6, ActivitiesJoined: 0, Level: 3, UpdatedAt: now},
		{UserID: "cat", TotalPoints: 100, ActivitiesCreated: 2, ActivitiesJoined: 4, Level: 2, UpdatedAt: now},
	}
	for i, s := range seed {
		award(t, db, s, domain.PointsEntry{
			ID: string(rune('a' + i)), UserID: s.UserID, Points: s.TotalPoints,
			Reason: domain.ReasonManualGrant, CreatedAt: now,
		})
	}

	points, err := db.TopByPoints(10)
	if err != nil {
		t.Fatalf("top by points: %v", err)
	}
	if len(points) != 3 || points[0].UserID != "bob" {
		t.Fatalf("expected bob first, got %+v", points)
	}
	// amy and cat tie at 100: user_id ascending.
	if points[1].UserID != "amy" || points[2].UserID != "cat" {
		t.Errorf("tie-break wrong: %s, %s", points[1].UserID, points[2].UserID)
	}

	created, _ := db.TopByCreated(2)
	if len(created) != 2 || created[0].UserID != "bob" {
		t.Errorf("top by created wrong: %+v", created)
	}

	joined, _ := db.TopByJoined(1)
	if len(joined) != 1 || joined[0].UserID != "amy" {
		t.Errorf("top by joined wrong: %+v", joined)
	}
}

func TestInsertUserAchievement_Idempotent(t *testing.T) {
	db := newTestDB(t)

	isNew, err := db.InsertUserAchievement("eve", "first_plan", now)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !isNew {
		t.Error("first insert should be new")
	}

	isNew, err = db.InsertUserAchievement("eve", "first_plan", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if isNew {
		t.Error("second insert should not be new")
	}

	count, _ := db.UnlockedCount("eve")
	if count != 1 {
		t.Errorf("expected 1 unlock, got %d", count)
	}
}

func TestUnlockedKeys(t *testing.T) {
	db := newTestDB(t)

	_, _ = db.InsertUserAchievement("fox", "first_plan", now)
	_, _ = db.InsertUserAchievement("fox", "streak_3", now)

	keys, err := db.UnlockedKeys("fox")
	if err != nil {
		t.Fatalf("unlocked keys: %v", err)
	}
	if !keys["first_plan"] || !keys["streak_3"] || len(keys) != 2 {
		t.Errorf("unexpected key set: %v", keys)
	}
}

func TestListUserAchievements_JoinsCatalog(t *testing.T) {
	db := newTestDB(t)

	defs := []domain.AchievementDef{
		{Key: "first_plan", Title: "First Plan", Icon: "🎯", Category: domain.CategoryCreation},
		{Key: "streak_3", Title: "Warming Up", Icon: "🔥", Category: domain.CategoryStreak},
	}
	if err := db.SeedAchievements(defs); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _ = db.InsertUserAchievement("gil", "first_plan", now)
	_, _ = db.InsertUserAchievement("gil", "streak_3", now.Add(time.Hour))

	list, err := db.ListUserAchievements("gil")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2, got %d", len(list))
	}
	// Newest first.
	if list[0].Key != "streak_3" || list[0].Title != "Warming Up" {
		t.Errorf("expected streak_3 first with catalog title, got %+v", list[0])
	}
}

func TestSeedAchievements_UpsertsMetadata(t *testing.T) {
	db := newTestDB(t)

	def := domain.AchievementDef{Key: "first_plan", Title: "Old Title", Category: domain.CategoryCreation}
	if err := db.SeedAchievements([]domain.AchievementDef{def}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	def.Title = "First Plan"
	if err := db.SeedAchievements([]domain.AchievementDef{def}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	_, _ = db.InsertUserAchievement("hal", "first_plan", now)
	list, _ := db.ListUserAchievements("hal")
	if len(list) != 1 || list[0].Title != "First Plan" {
		t.Errorf("expected reseed to update title, got %+v", list)
	}
}
