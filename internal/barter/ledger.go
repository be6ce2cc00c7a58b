package barter

import (
	"context"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// The account ledger: every change to Member.Credits goes through credit,
// debit or spend, and each of them refreshes the cached tier.

// credit adds a positive amount.
func credit(m *entity.Member, amount int) {
	if amount <= 0 {
		return
	}
	m.Credits += amount
	m.Tier = entity.TierFor(m.Credits)
}

// debit subtracts up to amount, stopping at zero, and returns what was actually taken.
func debit(m *entity.Member, amount int) int {
	if amount <= 0 {
		return 0
	}
	taken := min(amount, m.Credits)
	m.Credits -= taken
	m.Tier = entity.TierFor(m.Credits)
	return taken
}

// spend is the strict form of debit used for purchases: it never clamps.
func spend(m *entity.Member, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if m.Credits < amount {
		return ErrInsufficientCredits
	}
	m.Credits -= amount
	m.Tier = entity.TierFor(m.Credits)
	return nil
}

// ClaimReward spends cost credits from the member's balance.
func (e *Engine) ClaimReward(ctx context.Context, memberID string, cost int) (*entity.Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := spend(m, cost); err != nil {
		return nil, err
	}
	if err := e.commit(ctx, ChangeSet{Members: []entity.Member{*m}}); err != nil {
		return nil, err
	}
	e.logger.Infow("reward claimed", "member", m.ID, "cost", cost, "credits", m.Credits)
	return m, nil
}
