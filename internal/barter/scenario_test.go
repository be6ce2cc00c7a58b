package barter

import (
	"errors"
	"testing"
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Two creators, one asset, one full exchange.
func TestBarterRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	x := f.asset("alice", "x")

	task := f.mustAssign("bob")
	if task.AssetID != x.ID || task.Status != entity.TaskPending {
		t.Fatalf("unexpected task %+v", task)
	}
	f.clock.Advance(time.Hour)
	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "L"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if last := f.getMember("bob").LastTaskSubmission; last == nil || !last.Equal(f.clock.Now()) {
		t.Fatalf("lastTaskSubmission not refreshed: %v", last)
	}
	pending, _ := f.engine.PendingApprovalsFor(f.ctx, "alice")
	if len(pending) != 1 {
		t.Fatalf("alice should see 1 pending review, got %d", len(pending))
	}
	if _, err := f.engine.ReviewTask(f.ctx, "alice", task.ID, Review{Approved: true, Rating: intPtr(4)}); err != nil {
		t.Fatalf("review: %v", err)
	}

	bob := f.getMember("bob")
	if bob.Credits != 10 || bob.Tier != entity.TierBronze {
		t.Fatalf("bob: credits=%d tier=%s", bob.Credits, bob.Tier)
	}
	if usage := f.getAsset(x.ID).UsageCount; usage != 1 {
		t.Fatalf("usage: got %d, want 1", usage)
	}
	stored, err := f.store.GetTask(f.ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != entity.TaskApproved || stored.Rating != 4 || stored.ContentLink != "L" {
		t.Fatalf("unexpected stored task %+v", stored)
	}

	// nothing else to do today: the only foreign asset was already assigned
	next, err := f.engine.Assign(f.ctx, "bob")
	if err != nil || next != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", next, err)
	}
	if _, err := f.engine.ReviewTask(f.ctx, "alice", task.ID, Review{Approved: true}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
