package barter

import (
	"errors"
	"testing"
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

func TestSubmitAsset(t *testing.T) {
	f := newFixture(t)
	f.member("alice")

	a := f.asset("alice", "first")
	if a.Code != "U-alice-S01" || a.Status != entity.AssetActive || !a.Status.Valid() || a.UsageCount != 0 {
		t.Fatalf("unexpected asset %+v", a)
	}
	if !a.UnlockDate.Equal(start.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unlock date: got %v", a.UnlockDate)
	}
	if b := f.asset("alice", "second"); b.Code != "U-alice-S02" {
		t.Fatalf("second code: got %s", b.Code)
	}

	if _, err := f.engine.SubmitAsset(f.ctx, "alice", entity.AssetMetadata{Title: " ", AudioURL: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err := f.engine.SubmitAsset(f.ctx, "ghost", entity.AssetMetadata{Title: "t", AudioURL: "x"})
	if !errors.Is(err, ErrOwnerNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
	if errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("owner and member not-found errors must stay distinct")
	}

	if entity.AssetStatus("frozen").Valid() {
		t.Fatalf("unknown status reported valid")
	}

	owned, _ := f.engine.AssetsOf(f.ctx, "alice")
	if len(owned) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(owned))
	}
}

func TestUpdateAssetRespectsUnlockDate(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	f.member("root", func(m *entity.Member) { m.Role = entity.RoleAdmin })
	a := f.asset("alice", "song")

	title := "renamed"
	patch := entity.AssetPatch{Title: &title}
	if _, err := f.engine.UpdateAsset(f.ctx, "alice", a.ID, patch); !errors.Is(err, ErrAssetLocked) {
		t.Fatalf("owner before unlock: expected ErrAssetLocked, got %v", err)
	}
	if _, err := f.engine.UpdateAsset(f.ctx, "bob", a.ID, patch); !errors.Is(err, ErrNotAssetOwner) {
		t.Fatalf("non-owner: expected ErrNotAssetOwner, got %v", err)
	}
	if got, err := f.engine.UpdateAsset(f.ctx, "root", a.ID, patch); err != nil || got.Title != title {
		t.Fatalf("admin edit: %v %+v", err, got)
	}

	f.clock.Advance(7*24*time.Hour + time.Second)
	artist := "Alice"
	got, err := f.engine.UpdateAsset(f.ctx, "alice", a.ID, entity.AssetPatch{Artist: &artist})
	if err != nil {
		t.Fatalf("owner after unlock: %v", err)
	}
	if got.Artist != artist || got.Title != title || got.OwnerID != "alice" {
		t.Fatalf("unexpected asset %+v", got)
	}
	empty := ""
	if _, err := f.engine.UpdateAsset(f.ctx, "alice", a.ID, entity.AssetPatch{AudioURL: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if s := f.getAsset(a.ID); s.AudioURL == "" {
		t.Fatalf("rejected patch must not be stored")
	}
}

func TestDeleteAsset(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	f.member("root", func(m *entity.Member) { m.Role = entity.RoleAdmin })
	busy := f.asset("alice", "busy")
	task := f.mustAssign("bob")
	free := f.asset("alice", "free")

	if err := f.engine.DeleteAsset(f.ctx, "root", busy.ID); !errors.Is(err, ErrAssetInUse) {
		t.Fatalf("pending task: expected ErrAssetInUse, got %v", err)
	}
	if err := f.engine.DeleteAsset(f.ctx, "alice", free.ID); !errors.Is(err, ErrAssetLocked) {
		t.Fatalf("owner before unlock: expected ErrAssetLocked, got %v", err)
	}

	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "https://video/1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.ReviewTask(f.ctx, "alice", task.ID, Review{Approved: true}); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(8 * 24 * time.Hour)
	if err := f.engine.DeleteAsset(f.ctx, "alice", busy.ID); err != nil {
		t.Fatalf("delete after settlement: %v", err)
	}
	if _, err := f.store.GetAsset(f.ctx, busy.ID); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("asset still stored: %v", err)
	}
}

func TestDeleteAssetBlockedByRejectedTask(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	song := f.asset("alice", "song")
	task := f.mustAssign("bob")

	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "https://video/1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.ReviewTask(f.ctx, "alice", task.ID, Review{Approved: false, Feedback: "redo"}); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(8 * 24 * time.Hour)
	if err := f.engine.DeleteAsset(f.ctx, "alice", song.ID); !errors.Is(err, ErrAssetInUse) {
		t.Fatalf("rejected task: expected ErrAssetInUse, got %v", err)
	}

	// the resubmission still reaches the owner
	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "https://video/2"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	pending, _ := f.engine.PendingApprovalsFor(f.ctx, "alice")
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending review, got %d", len(pending))
	}
}

func TestSubmitContentForDeletedAsset(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	f.member("bob")
	song := f.asset("alice", "song")
	task := f.mustAssign("bob")

	// simulate a row removed behind the engine's back
	if err := f.store.Commit(f.ctx, ChangeSet{DeletedAssets: []string{song.ID}}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.SubmitContent(f.ctx, "bob", task.ID, "https://video/1"); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
	if stored, _ := f.store.GetTask(f.ctx, task.ID); stored.Status != entity.TaskPending {
		t.Fatalf("task moved to %s", stored.Status)
	}
}

func TestAssetCodeAfterDelete(t *testing.T) {
	f := newFixture(t)
	f.member("alice")
	first := f.asset("alice", "first")
	f.asset("alice", "second")

	f.clock.Advance(8 * 24 * time.Hour)
	if err := f.engine.DeleteAsset(f.ctx, "alice", first.ID); err != nil {
		t.Fatal(err)
	}
	if third := f.asset("alice", "third"); third.Code != "U-alice-S03" {
		t.Fatalf("code after delete: got %s, want U-alice-S03", third.Code)
	}
}

func TestNextAssetCode(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  string
	}{
		{"none", nil, "U-0001-S01"},
		{"gap", []string{"U-0001-S02", "U-0001-S07"}, "U-0001-S08"},
		{"foreign codes ignored", []string{"U-0002-S09", "legacy", "U-0001-S01"}, "U-0001-S02"},
		{"past two digits", []string{"U-0001-S99"}, "U-0001-S100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owned := make([]entity.Asset, 0, len(tc.codes))
			for _, c := range tc.codes {
				owned = append(owned, entity.Asset{Code: c})
			}
			if got := nextAssetCode("U-0001", owned); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
