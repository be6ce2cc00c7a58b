package barter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
	"github.com/ovaphlow/pitchfork/service-barter-go/pkg/utilities"
)

// Engine owns the barter rules: ledger, asset lifecycle, assignment, review
// and penalties. Every operation runs under one engine-wide lock and writes
// through a single Store.Commit, so operations never interleave and never
// leave partial writes behind.
type Engine struct {
	mu     sync.Mutex
	store  Store
	cfg    Config
	clock  clockwork.Clock
	rng    *rand.Rand
	hasher auth.PasswordHasher
	newID  func(prefix string) string
	logger *zap.SugaredLogger
}

type Option func(*Engine)

func WithClock(c clockwork.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRand sets the source used to pick assets; seed it for reproducible runs.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

func WithHasher(h auth.PasswordHasher) Option { return func(e *Engine) { e.hasher = h } }

func WithLogger(l *zap.SugaredLogger) Option { return func(e *Engine) { e.logger = l } }

func WithIDGenerator(fn func(prefix string) string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(store Store, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		cfg:    cfg,
		clock:  clockwork.NewRealClock(),
		hasher: auth.BcryptHasher{Cost: 12},
		newID:  utilities.PrefixedID,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(e.clock.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>7|1))
	}
	if e.cfg.Location == nil {
		e.cfg.Location = time.Local
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) now() time.Time { return e.clock.Now() }

func (e *Engine) commit(ctx context.Context, cs ChangeSet) error {
	if cs.Empty() {
		return nil
	}
	if err := e.store.Commit(ctx, cs); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (e *Engine) assetsOwnedBy(ctx context.Context, ownerID string) ([]entity.Asset, error) {
	all, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Asset, 0)
	for _, a := range all {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func timePtr(t time.Time) *time.Time { return &t }
