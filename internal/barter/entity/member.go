package entity

import "time"

// Role distinguishes regular creators from administrators.
type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// Tier is a reputation level derived from a credit balance.
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
	TierTop    Tier = "Top Tier"
)

// TierFor is the only way a tier is computed; Member.Tier is a cache of it.
func TierFor(credits int) Tier {
	switch {
	case credits >= 1000:
		return TierTop
	case credits >= 500:
		return TierGold
	case credits >= 200:
		return TierSilver
	default:
		return TierBronze
	}
}

// Member represents a row in the `members` table. Ledger fields (credits, tier,
// penalty bookkeeping) are owned by the engine and never patched directly.
type Member struct {
	ID                 string     `db:"id" json:"id"`
	Code               string     `db:"code" json:"code"`
	Username           string     `db:"username" json:"username"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email,omitempty"`
	PhoneNumber        string     `db:"phone_number" json:"phoneNumber,omitempty"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	PasswordAlgo       string     `db:"password_algo" json:"-"`
	Role               Role       `db:"role" json:"role"`
	Credits            int        `db:"credits" json:"credits"`
	Tier               Tier       `db:"tier" json:"tier"`
	LastActivity       time.Time  `db:"last_activity" json:"lastActivity"`
	LastTaskSubmission *time.Time `db:"last_task_submission" json:"lastTaskSubmission,omitempty"`
	PenaltyPointsWeek  int        `db:"penalty_points_week" json:"penaltyPointsWeek"`
	LastPenaltyDate    *time.Time `db:"last_penalty_date" json:"lastPenaltyDate,omitempty"`
	Active             bool       `db:"is_active" json:"isActive"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
}

func (m *Member) IsAdmin() bool { return m.Role == RoleAdmin }

// IsActive reports whether the member started a session within window of now.
func (m *Member) IsActive(now time.Time, window time.Duration) bool {
	return now.Sub(m.LastActivity) <= window
}

// MemberPatch lists the only member fields an administrator may edit.
type MemberPatch struct {
	Username    *string `json:"username,omitempty"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// Apply copies the set fields onto m.
func (p MemberPatch) Apply(m *Member) {
	if p.Username != nil {
		m.Username = *p.Username
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		m.PhoneNumber = *p.PhoneNumber
	}
}
