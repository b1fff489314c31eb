package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/task"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, skills, difficulty, deadline, expected_outcome, posted_by, created_at`

func (r *TaskRepository) Create(ctx context.Context, t task.Task) (*task.Task, error) {
	t.ID = common.NewUUID()
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Description, pq.Array(t.Skills), t.Difficulty, t.Deadline, t.ExpectedOutcome, t.PostedBy, t.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create task", err)
	}
	return &t, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id common.UUID) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	var t task.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, pq.Array(&t.Skills), &t.Difficulty, &t.Deadline, &t.ExpectedOutcome, &t.PostedBy, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "task not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load task", err)
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter task.Filter, limit, offset int) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []interface{}{}
	where := ""
	if len(filter.Skills) > 0 {
		args = append(args, pq.Array(filter.Skills))
		where = fmt.Sprintf(" WHERE skills && $%d", len(args))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		if where == "" {
			where = fmt.Sprintf(" WHERE difficulty = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND difficulty = $%d", len(args))
		}
	}
	args = append(args, limit, offset)
	query += where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list tasks", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) ListByPoster(ctx context.Context, posterID common.UUID) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE posted_by = $1 ORDER BY created_at DESC`, posterID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list posted tasks", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]task.Task, error) {
	var items []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, pq.Array(&t.Skills), &t.Difficulty, &t.Deadline, &t.ExpectedOutcome, &t.PostedBy, &t.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan task", err)
		}
		items = append(items, t)
	}
	return items, nil
}
