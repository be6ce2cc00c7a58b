package barter

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Store is the persistence port. Getters return ErrMemberNotFound, ErrAssetNotFound
// or ErrTaskNotFound (wrapped or not) for unknown ids; list results are copies.
type Store interface {
	ListMembers(ctx context.Context) ([]entity.Member, error)
	ListAssets(ctx context.Context) ([]entity.Asset, error)
	ListTasks(ctx context.Context) ([]entity.Task, error)

	GetMember(ctx context.Context, id string) (*entity.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (*entity.Member, error)
	GetAsset(ctx context.Context, id string) (*entity.Asset, error)
	GetTask(ctx context.Context, id string) (*entity.Task, error)

	// Commit applies every change in cs or none of them.
	Commit(ctx context.Context, cs ChangeSet) error
}

// ChangeSet is one atomic unit of writes: upserts per table plus asset deletions.
type ChangeSet struct {
	Members       []entity.Member
	Assets        []entity.Asset
	Tasks         []entity.Task
	DeletedAssets []string
}

func (cs ChangeSet) Empty() bool {
	return len(cs.Members) == 0 && len(cs.Assets) == 0 && len(cs.Tasks) == 0 && len(cs.DeletedAssets) == 0
}
