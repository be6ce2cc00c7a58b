package barter

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// applyPenalty charges a member who has not submitted content within the
// submission window. Deductions are capped per week; the counter resets once
// the last penalty is older than PenaltyResetAfter. It returns the penalty
// points charged (which may exceed what the balance could actually cover).
func (e *Engine) applyPenalty(m *entity.Member, now time.Time) int {
	if m.LastPenaltyDate != nil && now.Sub(*m.LastPenaltyDate) > e.cfg.PenaltyResetAfter {
		m.PenaltyPointsWeek = 0
	}

	idle := m.LastTaskSubmission == nil || now.Sub(*m.LastTaskSubmission) > e.cfg.SubmissionWindow
	if !idle || m.PenaltyPointsWeek >= e.cfg.WeeklyPenaltyCap {
		return 0
	}

	deduction := min(e.cfg.PenaltyStep, e.cfg.WeeklyPenaltyCap-m.PenaltyPointsWeek)
	if deduction <= 0 {
		return 0
	}
	debit(m, deduction)
	m.PenaltyPointsWeek += deduction
	m.LastPenaltyDate = timePtr(now)
	return deduction
}
