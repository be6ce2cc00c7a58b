package barter

import (
	"context"
	"errors"
	"strings"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Login checks the credential and starts a session: the penalty monitor runs
// first (creators only), then the member's assets go through their lifecycle
// transitions and LastActivity moves to now.
func (e *Engine) Login(ctx context.Context, username, password string) (*entity.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidCredential
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMemberByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if !e.hasher.Verify(m.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}

	cs := ChangeSet{}
	if e.hasher.NeedsRehash(m.PasswordHash) {
		if hash, algo, hErr := e.hasher.Hash(password); hErr == nil {
			m.PasswordHash, m.PasswordAlgo = hash, algo
		}
	}
	if err := e.startSession(ctx, m, &cs); err != nil {
		return nil, err
	}
	cs.Members = append(cs.Members, *m)
	if err := e.commit(ctx, cs); err != nil {
		return nil, err
	}
	return m, nil
}

// startSession mutates m and stages changed assets into cs.
func (e *Engine) startSession(ctx context.Context, m *entity.Member, cs *ChangeSet) error {
	now := e.now()

	if !m.IsAdmin() {
		if charged := e.applyPenalty(m, now); charged > 0 {
			e.logger.Infow("inactivity penalty applied",
				"member", m.ID,
				"deducted", charged,
				"penalty_points_week", m.PenaltyPointsWeek,
				"credits", m.Credits,
			)
		}
	}

	owned, err := e.assetsOwnedBy(ctx, m.ID)
	if err != nil {
		return err
	}
	away := !m.IsActive(now, e.cfg.InactivityWindow)
	changed := refreshAssets(owned, away, now)
	if len(changed) > 0 {
		e.logger.Infow("asset lifecycle updated", "member", m.ID, "away", away, "changed", len(changed))
	}
	cs.Assets = append(cs.Assets, changed...)

	m.LastActivity = now
	m.Active = m.IsActive(now, e.cfg.InactivityWindow)
	return nil
}
