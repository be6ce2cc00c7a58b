package barter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// SubmitAsset deposits a new asset into the pool. It is assignable right away;
// UnlockDate only gates the owner's own edits.
func (e *Engine) SubmitAsset(ctx context.Context, ownerID string, meta entity.AssetMetadata) (*entity.Asset, error) {
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Artist = strings.TrimSpace(meta.Artist)
	meta.AudioURL = strings.TrimSpace(meta.AudioURL)
	if meta.Title == "" || meta.AudioURL == "" {
		return nil, fmt.Errorf("%w: title and audio url are required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.store.GetMember(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	owned, err := e.assetsOwnedBy(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	a := entity.Asset{
		ID:          e.newID("s"),
		Code:        nextAssetCode(owner.Code, owned),
		OwnerID:     ownerID,
		Title:       meta.Title,
		Artist:      meta.Artist,
		AudioURL:    meta.AudioURL,
		Status:      entity.AssetActive,
		SubmittedAt: now,
		UnlockDate:  now.Add(e.cfg.UnlockDelay),
	}
	if err := e.commit(ctx, ChangeSet{Assets: []entity.Asset{a}}); err != nil {
		return nil, err
	}
	e.logger.Infow("asset submitted", "asset", a.ID, "code", a.Code, "owner", ownerID)
	return &a, nil
}

// AssetsOf lists the assets deposited by ownerID.
func (e *Engine) AssetsOf(ctx context.Context, ownerID string) ([]entity.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assetsOwnedBy(ctx, ownerID)
}

// UpdateAsset applies an allow-listed patch. Owners may only edit once the unlock date passed.
func (e *Engine) UpdateAsset(ctx context.Context, actorID, assetID string, patch entity.AssetPatch) (*entity.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.editableAsset(ctx, actorID, assetID)
	if err != nil {
		return nil, err
	}
	patch.Apply(a)
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.AudioURL) == "" {
		return nil, fmt.Errorf("%w: title and audio url are required", ErrInvalidInput)
	}
	if err := e.commit(ctx, ChangeSet{Assets: []entity.Asset{*a}}); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAsset removes an asset whose tasks are all approved.
func (e *Engine) DeleteAsset(ctx context.Context, actorID, assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.editableAsset(ctx, actorID, assetID)
	if err != nil {
		return err
	}
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.AssetID == a.ID && !t.Status.Settled() {
			return ErrAssetInUse
		}
	}
	if err := e.commit(ctx, ChangeSet{DeletedAssets: []string{a.ID}}); err != nil {
		return err
	}
	e.logger.Infow("asset deleted", "asset", a.ID, "by", actorID)
	return nil
}

// nextAssetCode continues after the highest suffix the owner still holds, keeping codes unique among live assets.
func nextAssetCode(ownerCode string, owned []entity.Asset) string {
	prefix := ownerCode + "-S"
	last := 0
	for _, a := range owned {
		n, err := strconv.Atoi(strings.TrimPrefix(a.Code, prefix))
		if err == nil && strings.HasPrefix(a.Code, prefix) && n > last {
			last = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, last+1)
}

func (e *Engine) editableAsset(ctx context.Context, actorID, assetID string) (*entity.Asset, error) {
	actor, err := e.store.GetMember(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a, err := e.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return a, nil
	}
	if a.OwnerID != actor.ID {
		return nil, ErrNotAssetOwner
	}
	if !e.now().After(a.UnlockDate) {
		return nil, ErrAssetLocked
	}
	return a, nil
}

// refreshAssets runs the lifecycle transitions for an owner's assets at session
// start and returns the assets whose status changed. away means the owner's
// last session is older than the inactivity window.
func refreshAssets(assets []entity.Asset, away bool, now time.Time) []entity.Asset {
	changed := make([]entity.Asset, 0)
	for _, a := range assets {
		next := a.Status
		switch {
		case away:
			next = entity.AssetInactive
		case a.Status == entity.AssetInactive, a.Status == entity.AssetLocked:
			if now.After(a.UnlockDate) {
				next = entity.AssetActive
			} else {
				next = entity.AssetLocked
			}
		}
		if next != a.Status {
			a.Status = next
			changed = append(changed, a)
		}
	}
	return changed
}
