package barter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

const testPassword = "secret"

// start is a Monday morning, far from any day boundary.
var start = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	clock  fakeClock
	store  *MemoryStore
	engine *Engine
	hash   string
}

func newFixture(t *testing.T, tweak ...func(*Config)) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	for _, fn := range tweak {
		fn(&cfg)
	}
	clock := clockwork.NewFakeClockAt(start)
	store := NewMemoryStore()
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	hash, _, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	seq := 0
	engine := NewEngine(store, cfg,
		WithClock(clock),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithHasher(hasher),
		WithLogger(zaptest.NewLogger(t).Sugar()),
		WithIDGenerator(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%04d", prefix, seq)
		}),
	)
	return &fixture{t: t, ctx: context.Background(), clock: clock, store: store, engine: engine, hash: hash}
}

// member stores a creator directly, bypassing registration defaults.
func (f *fixture) member(id string, mutate ...func(*entity.Member)) entity.Member {
	f.t.Helper()
	now := f.clock.Now()
	m := entity.Member{
		ID:                 id,
		Code:               "U-" + id,
		Username:           id,
		Name:               id,
		PasswordHash:       f.hash,
		Role:               entity.RoleCreator,
		Tier:               entity.TierBronze,
		LastActivity:       now,
		LastTaskSubmission: timePtr(now),
		Active:             true,
		CreatedAt:          now,
	}
	for _, fn := range mutate {
		fn(&m)
	}
	if err := f.store.Commit(f.ctx, ChangeSet{Members: []entity.Member{m}}); err != nil {
		f.t.Fatalf("seed member: %v", err)
	}
	return m
}

func (f *fixture) asset(ownerID, title string) entity.Asset {
	f.t.Helper()
	a, err := f.engine.SubmitAsset(f.ctx, ownerID, entity.AssetMetadata{Title: title, AudioURL: "https://audio/" + title})
	if err != nil {
		f.t.Fatalf("submit asset: %v", err)
	}
	return *a
}

func (f *fixture) getMember(id string) entity.Member {
	f.t.Helper()
	m, err := f.store.GetMember(f.ctx, id)
	if err != nil {
		f.t.Fatalf("get member %s: %v", id, err)
	}
	return *m
}

func (f *fixture) getAsset(id string) entity.Asset {
	f.t.Helper()
	a, err := f.store.GetAsset(f.ctx, id)
	if err != nil {
		f.t.Fatalf("get asset %s: %v", id, err)
	}
	return *a
}

func (f *fixture) login(username string) *entity.Member {
	f.t.Helper()
	m, err := f.engine.Login(f.ctx, username, testPassword)
	if err != nil {
		f.t.Fatalf("login %s: %v", username, err)
	}
	return m
}

func (f *fixture) mustAssign(memberID string) *entity.Task {
	f.t.Helper()
	task, err := f.engine.Assign(f.ctx, memberID)
	if err != nil {
		f.t.Fatalf("assign %s: %v", memberID, err)
	}
	if task == nil {
		f.t.Fatalf("assign %s: expected a task, got none", memberID)
	}
	return task
}

func intPtr(n int) *int { return &n }
