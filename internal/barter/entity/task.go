package entity

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskSubmitted TaskStatus = "submitted"
	TaskApproved  TaskStatus = "approved"
	TaskRejected  TaskStatus = "rejected"
)

// CanSubmit reports whether content may be (re)submitted from this state.
func (s TaskStatus) CanSubmit() bool { return s == TaskPending || s == TaskRejected }

// CanReview reports whether the asset owner may approve or reject from this state.
func (s TaskStatus) CanReview() bool { return s == TaskSubmitted }

// Settled reports whether the task can no longer move. A rejected task may still be resubmitted.
func (s TaskStatus) Settled() bool { return s == TaskApproved }

// Task assigns one member to produce content with one asset.
// The assignee writes ContentLink/SubmittedAt; the asset owner writes the review fields.
type Task struct {
	ID          string     `db:"id" json:"id"`
	Code        string     `db:"code" json:"code"`
	AssigneeID  string     `db:"assignee_id" json:"assigneeId"`
	AssetID     string     `db:"asset_id" json:"assetId"`
	Status      TaskStatus `db:"status" json:"status"`
	ContentLink string     `db:"content_link" json:"contentLink,omitempty"`
	Feedback    string     `db:"feedback" json:"feedback,omitempty"`
	Rating      int        `db:"rating" json:"rating,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// Stats is the dashboard projection for one member.
type Stats struct {
	Credits            int  `json:"credits"`
	Debt               int  `json:"debt"`
	ActiveAssetCount   int  `json:"activeAssetCount"`
	PendingReviewCount int  `json:"pendingReviewCount"`
	Tier               Tier `json:"tier"`
}

// ContentItem is one approved task joined with the people and asset behind it.
type ContentItem struct {
	Task    Task   `json:"task"`
	Asset   Asset  `json:"asset"`
	Creator string `json:"creator"`
	Owner   string `json:"owner"`
}
