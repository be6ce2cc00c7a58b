package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

type AssetRepo struct {
	db *sqlx.DB
}

func NewAssetRepo(db *sqlx.DB) *AssetRepo { return &AssetRepo{db: db} }

// EnsureTable creates the assets table and its owner index.
func (r *AssetRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS assets (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  owner_id TEXT NOT NULL REFERENCES members(id),
  title TEXT NOT NULL,
  artist TEXT NOT NULL DEFAULT '',
  audio_url TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('locked','active','inactive')),
  submitted_at TIMESTAMPTZ NOT NULL,
  unlock_date TIMESTAMPTZ NOT NULL,
  usage_count INT NOT NULL DEFAULT 0 CHECK (usage_count >= 0)
);
CREATE INDEX IF NOT EXISTS idx_assets_owner_id ON assets(owner_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const assetColumns = `id, code, owner_id, title, artist, audio_url, status, submitted_at, unlock_date, usage_count`

func (r *AssetRepo) List(ctx context.Context) ([]entity.Asset, error) {
	out := []entity.Asset{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+assetColumns+` FROM assets ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	var row entity.Asset
	if err := r.db.GetContext(ctx, &row, `SELECT `+assetColumns+` FROM assets WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, barter.ErrAssetNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *AssetRepo) Upsert(ctx context.Context, ext sqlx.ExtContext, a entity.Asset) error {
	const q = `INSERT INTO assets (` + assetColumns + `)
		VALUES (:id, :code, :owner_id, :title, :artist, :audio_url, :status, :submitted_at, :unlock_date, :usage_count)
		ON CONFLICT (id) DO UPDATE SET
			code=EXCLUDED.code, title=EXCLUDED.title, artist=EXCLUDED.artist, audio_url=EXCLUDED.audio_url,
			status=EXCLUDED.status, unlock_date=EXCLUDED.unlock_date, usage_count=EXCLUDED.usage_count`
	_, err := sqlx.NamedExecContext(ctx, ext, q, a)
	return err
}

func (r *AssetRepo) Delete(ctx context.Context, ext sqlx.ExtContext, id string) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM assets WHERE id=$1`, id)
	return err
}
