package barter

import (
	"context"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Assign picks a random assignable asset for requesterID and creates a pending
// task for it. It returns (nil, nil) when nothing is eligible and
// ErrDailyQuotaExceeded once the requester already received DailyQuota tasks
// today. Tasks are only created on success, so empty results never use quota.
func (e *Engine) Assign(ctx context.Context, requesterID string) (*entity.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.GetMember(ctx, requesterID); err != nil {
		return nil, err
	}
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	todays := 0
	assignedToday := make(map[string]bool)
	for _, t := range tasks {
		if t.AssigneeID == requesterID && sameDay(t.CreatedAt, now, e.cfg.Location) {
			todays++
			assignedToday[t.AssetID] = true
		}
	}
	if todays >= e.cfg.DailyQuota {
		e.logger.Infow("daily quota reached", "member", requesterID, "tasks_today", todays)
		return nil, ErrDailyQuotaExceeded
	}

	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	pool := make([]entity.Asset, 0, len(assets))
	for _, a := range assets {
		if a.OwnerID == requesterID || !a.Assignable() || assignedToday[a.ID] {
			continue
		}
		pool = append(pool, a)
	}
	if len(pool) == 0 {
		e.logger.Debugw("no eligible asset", "member", requesterID)
		return nil, nil
	}
	picked := pool[e.rng.IntN(len(pool))]

	t := entity.Task{
		ID:         e.newID("t"),
		Code:       fmt.Sprintf("T-%04d", len(tasks)+1),
		AssigneeID: requesterID,
		AssetID:    picked.ID,
		Status:     entity.TaskPending,
		CreatedAt:  now,
	}
	if err := e.commit(ctx, ChangeSet{Tasks: []entity.Task{t}}); err != nil {
		return nil, err
	}
	e.logger.Infow("task assigned", "task", t.ID, "member", requesterID, "asset", picked.ID, "pool", len(pool))
	return &t, nil
}

// TasksOf lists the tasks assigned to assigneeID.
func (e *Engine) TasksOf(ctx context.Context, assigneeID string) ([]entity.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0)
	for _, t := range tasks {
		if t.AssigneeID == assigneeID {
			out = append(out, t)
		}
	}
	return out, nil
}
