package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// MemberRepo provides data access for the members table using sqlx.
type MemberRepo struct {
	db *sqlx.DB
}

func NewMemberRepo(db *sqlx.DB) *MemberRepo { return &MemberRepo{db: db} }

// EnsureTable creates the members table if not exists (idempotent).
func (r *MemberRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL DEFAULT '',
  password_algo TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'creator',
  credits INT NOT NULL DEFAULT 0 CHECK (credits >= 0),
  tier TEXT NOT NULL DEFAULT 'Bronze',
  last_activity TIMESTAMPTZ NOT NULL,
  last_task_submission TIMESTAMPTZ,
  penalty_points_week INT NOT NULL DEFAULT 0 CHECK (penalty_points_week BETWEEN 0 AND 10),
  last_penalty_date TIMESTAMPTZ,
  is_active BOOLEAN NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const memberColumns = `id, code, username, name, email, phone_number, password_hash, password_algo,
	role, credits, tier, last_activity, last_task_submission, penalty_points_week,
	last_penalty_date, is_active, created_at`

func (r *MemberRepo) List(ctx context.Context) ([]entity.Member, error) {
	out := []entity.Member{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+memberColumns+` FROM members ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns barter.ErrMemberNotFound when no row matches.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	return r.getOne(ctx, `SELECT `+memberColumns+` FROM members WHERE id=$1`, id)
}

// GetByUsername fetches by username.
func (r *MemberRepo) GetByUsername(ctx context.Context, username string) (*entity.Member, error) {
	return r.getOne(ctx, `SELECT `+memberColumns+` FROM members WHERE username=$1`, username)
}

func (r *MemberRepo) getOne(ctx context.Context, q string, arg any) (*entity.Member, error) {
	var row entity.Member
	if err := r.db.GetContext(ctx, &row, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, barter.ErrMemberNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Upsert writes the full row through ext, which may be a transaction.
func (r *MemberRepo) Upsert(ctx context.Context, ext sqlx.ExtContext, m entity.Member) error {
	const q = `INSERT INTO members (` + memberColumns + `)
		VALUES (:id, :code, :username, :name, :email, :phone_number, :password_hash, :password_algo,
			:role, :credits, :tier, :last_activity, :last_task_submission, :penalty_points_week,
			:last_penalty_date, :is_active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			code=EXCLUDED.code, username=EXCLUDED.username, name=EXCLUDED.name, email=EXCLUDED.email,
			phone_number=EXCLUDED.phone_number, password_hash=EXCLUDED.password_hash,
			password_algo=EXCLUDED.password_algo, role=EXCLUDED.role, credits=EXCLUDED.credits,
			tier=EXCLUDED.tier, last_activity=EXCLUDED.last_activity,
			last_task_submission=EXCLUDED.last_task_submission,
			penalty_points_week=EXCLUDED.penalty_points_week,
			last_penalty_date=EXCLUDED.last_penalty_date, is_active=EXCLUDED.is_active`
	_, err := sqlx.NamedExecContext(ctx, ext, q, m)
	return err
}
