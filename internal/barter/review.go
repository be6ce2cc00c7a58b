package barter

import (
	"context"
	"strings"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Review is the asset owner's decision on a submitted task.
type Review struct {
	Approved bool
	Feedback string
	// Rating is 1..5; nil falls back to Config.DefaultRating.
	Rating *int
}

// SubmitContent moves a pending or rejected task to submitted. Only the
// assignee (or an administrator) may submit. The assignee's
// LastTaskSubmission is refreshed in the same commit.
func (e *Engine) SubmitContent(ctx context.Context, actorID, taskID, link string) (*entity.Task, error) {
	link = strings.TrimSpace(link)

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	actor, err := e.store.GetMember(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.ID != t.AssigneeID && !actor.IsAdmin() {
		return nil, ErrNotAssignee
	}
	if !t.Status.CanSubmit() {
		return nil, ErrInvalidTransition
	}
	if link == "" {
		return nil, ErrContentLinkRequired
	}
	if _, err := e.store.GetAsset(ctx, t.AssetID); err != nil {
		return nil, err
	}
	assignee := actor
	if actor.ID != t.AssigneeID {
		if assignee, err = e.store.GetMember(ctx, t.AssigneeID); err != nil {
			return nil, err
		}
	}

	now := e.now()
	t.Status = entity.TaskSubmitted
	t.ContentLink = link
	t.SubmittedAt = timePtr(now)
	assignee.LastTaskSubmission = timePtr(now)

	cs := ChangeSet{Members: []entity.Member{*assignee}, Tasks: []entity.Task{*t}}
	if err := e.commit(ctx, cs); err != nil {
		return nil, err
	}
	e.logger.Infow("content submitted", "task", t.ID, "member", assignee.ID)
	return t, nil
}

// ReviewTask approves or rejects a submitted task. Approval settles in one
// commit: task approved, assignee credited, asset usage incremented.
func (e *Engine) ReviewTask(ctx context.Context, reviewerID, taskID string, r Review) (*entity.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	reviewer, err := e.store.GetMember(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	asset, err := e.store.GetAsset(ctx, t.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.OwnerID != reviewer.ID && !reviewer.IsAdmin() {
		return nil, ErrNotAssetOwner
	}
	if !t.Status.CanReview() {
		return nil, ErrInvalidTransition
	}

	if !r.Approved {
		t.Status = entity.TaskRejected
		t.Feedback = strings.TrimSpace(r.Feedback)
		if t.Feedback == "" {
			t.Feedback = e.cfg.DefaultFeedback
		}
		if err := e.commit(ctx, ChangeSet{Tasks: []entity.Task{*t}}); err != nil {
			return nil, err
		}
		e.logger.Infow("task rejected", "task", t.ID, "reviewer", reviewer.ID)
		return t, nil
	}

	rating, err := e.resolveRating(t.ID, r.Rating)
	if err != nil {
		return nil, err
	}
	assignee, err := e.store.GetMember(ctx, t.AssigneeID)
	if err != nil {
		return nil, err
	}

	t.Status = entity.TaskApproved
	t.Rating = rating
	t.CompletedAt = timePtr(e.now())
	credit(assignee, e.cfg.ApprovalCredit)
	asset.UsageCount++

	cs := ChangeSet{
		Members: []entity.Member{*assignee},
		Assets:  []entity.Asset{*asset},
		Tasks:   []entity.Task{*t},
	}
	if err := e.commit(ctx, cs); err != nil {
		return nil, err
	}
	e.logger.Infow("task approved",
		"task", t.ID,
		"assignee", assignee.ID,
		"credits", assignee.Credits,
		"tier", assignee.Tier,
		"asset", asset.ID,
		"usage", asset.UsageCount,
	)
	return t, nil
}

func (e *Engine) resolveRating(taskID string, rating *int) (int, error) {
	if rating == nil {
		if e.cfg.DefaultRating == 0 {
			return 0, ErrRatingRequired
		}
		e.logger.Warnw("approval without rating, using default", "task", taskID, "rating", e.cfg.DefaultRating)
		return e.cfg.DefaultRating, nil
	}
	if *rating < 1 || *rating > 5 {
		return 0, ErrInvalidRating
	}
	return *rating, nil
}

// PendingApprovalsFor lists submitted tasks made for assets owned by ownerID.
func (e *Engine) PendingApprovalsFor(ctx context.Context, ownerID string) ([]entity.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingApprovals(ctx, ownerID)
}

func (e *Engine) pendingApprovals(ctx context.Context, ownerID string) ([]entity.Task, error) {
	owned, err := e.assetsOwnedBy(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(owned))
	for _, a := range owned {
		ids[a.ID] = true
	}
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0)
	for _, t := range tasks {
		if t.Status == entity.TaskSubmitted && ids[t.AssetID] {
			out = append(out, t)
		}
	}
	return out, nil
}
