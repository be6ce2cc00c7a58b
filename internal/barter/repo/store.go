package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
	"github.com/ovaphlow/pitchfork/service-barter-go/pkg/database"
)

// PostgresStore implements barter.Store on top of the three repositories.
// Commit writes a whole ChangeSet in one transaction.
type PostgresStore struct {
	db      *sqlx.DB
	members *MemberRepo
	assets  *AssetRepo
	tasks   *TaskRepo
}

var _ barter.Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		members: NewMemberRepo(db),
		assets:  NewAssetRepo(db),
		tasks:   NewTaskRepo(db),
	}
}

// EnsureTables creates members, assets and tasks in dependency order.
func (s *PostgresStore) EnsureTables(ctx context.Context) error {
	if err := s.members.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure members: %w", err)
	}
	if err := s.assets.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure assets: %w", err)
	}
	if err := s.tasks.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure tasks: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMembers(ctx context.Context) ([]entity.Member, error) {
	return s.members.List(ctx)
}

func (s *PostgresStore) ListAssets(ctx context.Context) ([]entity.Asset, error) {
	return s.assets.List(ctx)
}

func (s *PostgresStore) ListTasks(ctx context.Context) ([]entity.Task, error) {
	return s.tasks.List(ctx)
}

func (s *PostgresStore) GetMember(ctx context.Context, id string) (*entity.Member, error) {
	return s.members.GetByID(ctx, id)
}

func (s *PostgresStore) GetMemberByUsername(ctx context.Context, username string) (*entity.Member, error) {
	return s.members.GetByUsername(ctx, username)
}

func (s *PostgresStore) GetAsset(ctx context.Context, id string) (*entity.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Commit writes members before assets before tasks so foreign keys resolve.
func (s *PostgresStore) Commit(ctx context.Context, cs barter.ChangeSet) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, m := range cs.Members {
			if err := s.members.Upsert(ctx, tx, m); err != nil {
				return fmt.Errorf("upsert member %s: %w", m.ID, err)
			}
		}
		for _, a := range cs.Assets {
			if err := s.assets.Upsert(ctx, tx, a); err != nil {
				return fmt.Errorf("upsert asset %s: %w", a.ID, err)
			}
		}
		for _, t := range cs.Tasks {
			if err := s.tasks.Upsert(ctx, tx, t); err != nil {
				return fmt.Errorf("upsert task %s: %w", t.ID, err)
			}
		}
		for _, id := range cs.DeletedAssets {
			if err := s.assets.Delete(ctx, tx, id); err != nil {
				return fmt.Errorf("delete asset %s: %w", id, err)
			}
		}
		return nil
	})
}
