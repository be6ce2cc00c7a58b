package entity

import "time"

type AssetStatus string

const (
	// AssetLocked: in cool-down until UnlockDate, not assignable.
	AssetLocked AssetStatus = "locked"
	// AssetActive is the only assignable state.
	AssetActive AssetStatus = "active"
	// AssetInactive: owner has been away too long, not assignable.
	AssetInactive AssetStatus = "inactive"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetLocked, AssetActive, AssetInactive:
		return true
	}
	return false
}

// Asset is a promotable audio item deposited into the shared pool.
type Asset struct {
	ID          string      `db:"id" json:"id"`
	Code        string      `db:"code" json:"code"`
	OwnerID     string      `db:"owner_id" json:"ownerId"`
	Title       string      `db:"title" json:"title"`
	Artist      string      `db:"artist" json:"artist"`
	AudioURL    string      `db:"audio_url" json:"audioUrl"`
	Status      AssetStatus `db:"status" json:"status"`
	SubmittedAt time.Time   `db:"submitted_at" json:"submittedAt"`
	UnlockDate  time.Time   `db:"unlock_date" json:"unlockDate"`
	UsageCount  int         `db:"usage_count" json:"usageCount"`
}

// Assignable is the scheduler's eligibility predicate.
func (a *Asset) Assignable() bool { return a.Status == AssetActive }

// AssetMetadata is the owner supplied part of a new asset.
type AssetMetadata struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	AudioURL string `json:"audioUrl"`
}

// AssetPatch lists the asset fields an owner may edit once the asset is unlocked.
type AssetPatch struct {
	Title    *string `json:"title,omitempty"`
	Artist   *string `json:"artist,omitempty"`
	AudioURL *string `json:"audioUrl,omitempty"`
}

func (p AssetPatch) Apply(a *Asset) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Artist != nil {
		a.Artist = *p.Artist
	}
	if p.AudioURL != nil {
		a.AudioURL = *p.AudioURL
	}
}
