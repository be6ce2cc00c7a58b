package barter

import (
	"testing"
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

func approve(t *testing.T, f *fixture, assignee, owner string) entity.Task {
	t.Helper()
	task := f.mustAssign(assignee)
	if _, err := f.engine.SubmitContent(f.ctx, assignee, task.ID, "https://video/"+task.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := f.engine.ReviewTask(f.ctx, owner, task.ID, Review{Approved: true, Rating: intPtr(5)})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	return *got
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	for _, title := range []string{"a1", "a2", "a3"} {
		f.asset("alice", title)
	}
	b1 := f.asset("bob", "b1")

	approve(t, f, "alice", "bob")

	// one more alice asset gets a submitted task waiting for review
	task := f.mustAssign("bob")
	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "https://video/x"); err != nil {
		t.Fatal(err)
	}

	inactive := f.getAsset(b1.ID)
	inactive.Status = entity.AssetInactive
	if err := f.store.Commit(f.ctx, ChangeSet{Assets: []entity.Asset{inactive}}); err != nil {
		t.Fatal(err)
	}

	s, err := f.engine.Stats(f.ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	want := entity.Stats{Credits: 10, Debt: 2, ActiveAssetCount: 3, PendingReviewCount: 1, Tier: entity.TierBronze}
	if *s != want {
		t.Fatalf("alice stats: got %+v, want %+v", *s, want)
	}

	s, err = f.engine.Stats(f.ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	want = entity.Stats{Credits: 0, Debt: 1, ActiveAssetCount: 0, PendingReviewCount: 0, Tier: entity.TierBronze}
	if *s != want {
		t.Fatalf("bob stats: got %+v, want %+v", *s, want)
	}
}

func TestStatsDebtNeverNegative(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.DailyQuota = 10 })
	f.member("alice")
	f.member("bob")
	f.asset("alice", "a1")
	f.asset("alice", "a2")
	approve(t, f, "bob", "alice")
	approve(t, f, "bob", "alice")

	s, err := f.engine.Stats(f.ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if s.Debt != 0 || s.Credits != 20 {
		t.Fatalf("got %+v", *s)
	}
}

func TestApprovedContentNewestFirst(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.DailyQuota = 10 })
	f.member("alice")
	f.member("bob")
	f.asset("alice", "a1")
	f.asset("alice", "a2")

	older := approve(t, f, "bob", "alice")
	f.clock.Advance(time.Hour)
	newer := approve(t, f, "bob", "alice")

	// a pending task never shows up
	f.asset("bob", "b1")
	f.mustAssign("alice")

	items, err := f.engine.ApprovedContent(f.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Task.ID != newer.ID || items[1].Task.ID != older.ID {
		t.Fatalf("wrong order: %s, %s", items[0].Task.ID, items[1].Task.ID)
	}
	if items[0].Creator != "bob" || items[0].Owner != "alice" || items[0].Asset.ID != newer.AssetID {
		t.Fatalf("unexpected item %+v", items[0])
	}
}
