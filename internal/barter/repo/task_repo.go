package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

// EnsureTable creates the tasks table. asset_id has no foreign key so approved
// history survives asset deletion.
func (r *TaskRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  assignee_id TEXT NOT NULL REFERENCES members(id),
  asset_id TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('pending','submitted','approved','rejected')),
  content_link TEXT NOT NULL DEFAULT '',
  feedback TEXT NOT NULL DEFAULT '',
  rating INT NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
  created_at TIMESTAMPTZ NOT NULL,
  submitted_at TIMESTAMPTZ,
  completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee_id ON tasks(assignee_id);
CREATE INDEX IF NOT EXISTS idx_tasks_asset_id ON tasks(asset_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const taskColumns = `id, code, assignee_id, asset_id, status, content_link, feedback, rating, created_at, submitted_at, completed_at`

func (r *TaskRepo) List(ctx context.Context) ([]entity.Task, error) {
	out := []entity.Task{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+taskColumns+` FROM tasks ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	var row entity.Task
	if err := r.db.GetContext(ctx, &row, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, barter.ErrTaskNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TaskRepo) Upsert(ctx context.Context, ext sqlx.ExtContext, t entity.Task) error {
	const q = `INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :code, :assignee_id, :asset_id, :status, :content_link, :feedback, :rating, :created_at, :submitted_at, :completed_at)
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status, content_link=EXCLUDED.content_link, feedback=EXCLUDED.feedback,
			rating=EXCLUDED.rating, submitted_at=EXCLUDED.submitted_at, completed_at=EXCLUDED.completed_at`
	_, err := sqlx.NamedExecContext(ctx, ext, q, t)
	return err
}
