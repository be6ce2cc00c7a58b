package barter

import (
	"context"
	"sort"
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Stats returns the dashboard numbers for memberID. Debt is one unit per
// deposited asset minus the member's own approved tasks, floored at zero.
func (e *Engine) Stats(ctx context.Context, memberID string) (*entity.Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	owned, err := e.assetsOwnedBy(ctx, memberID)
	if err != nil {
		return nil, err
	}
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := e.pendingApprovals(ctx, memberID)
	if err != nil {
		return nil, err
	}

	approved := 0
	for _, t := range tasks {
		if t.AssigneeID == memberID && t.Status == entity.TaskApproved {
			approved++
		}
	}
	active := 0
	for _, a := range owned {
		if a.Status != entity.AssetInactive {
			active++
		}
	}
	return &entity.Stats{
		Credits:            m.Credits,
		Debt:               max(0, len(owned)-approved),
		ActiveAssetCount:   active,
		PendingReviewCount: len(pending),
		Tier:               entity.TierFor(m.Credits),
	}, nil
}

// ApprovedContent is the community gallery: approved tasks, newest first.
func (e *Engine) ApprovedContent(ctx context.Context) ([]entity.ContentItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	members, err := e.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	assetByID := make(map[string]entity.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.ID] = a
	}
	nameByID := make(map[string]string, len(members))
	for _, m := range members {
		nameByID[m.ID] = m.Username
	}

	out := make([]entity.ContentItem, 0)
	for _, t := range tasks {
		if t.Status != entity.TaskApproved {
			continue
		}
		a, ok := assetByID[t.AssetID]
		if !ok {
			continue
		}
		creator, ok := nameByID[t.AssigneeID]
		if !ok {
			continue
		}
		out = append(out, entity.ContentItem{Task: t, Asset: a, Creator: creator, Owner: nameByID[a.OwnerID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return completedAt(out[i].Task).After(completedAt(out[j].Task))
	})
	return out, nil
}

func completedAt(t entity.Task) time.Time {
	if t.CompletedAt == nil {
		return t.CreatedAt
	}
	return *t.CompletedAt
}
