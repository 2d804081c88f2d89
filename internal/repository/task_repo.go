package repository

import (
	"context"
	"errors"
	"fmt"

	"studyboard/internal/domain"
	"studyboard/internal/tasks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOwnerMismatch = errors.New("task owner mismatch")

// TaskRepository stores task records in the tasks table.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id::text, user_id::text, title, description, type, due_date, priority, status, created_at, updated_at`

// Create inserts a task for ownerID and returns its id. Timestamps are set by the database.
func (r *TaskRepository) Create(ctx context.Context, ownerID string, f domain.TaskFields) (string, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return "", fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}

	var id string
	err = r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, type, due_date, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id::text`,
		owner, f.Title, f.Description, string(f.Type), f.DueDate, string(f.Priority), string(f.Status),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// List returns all tasks of ownerID, newest first.
func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id`,
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// Update overwrites the editable fields of a task and bumps updated_at.
func (r *TaskRepository) Update(ctx context.Context, id string, f domain.TaskFields) error {
	return r.update(ctx, id, "", f)
}

// Delete removes a task. Deleting a missing id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id, "")
}

// ForOwner returns a view of the repository limited to ownerID's tasks.
func (r *TaskRepository) ForOwner(ownerID string) tasks.RemoteStore {
	return &OwnerTasks{repo: r, ownerID: ownerID}
}

func (r *TaskRepository) update(ctx context.Context, id, ownerID string, f domain.TaskFields) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	query := `UPDATE tasks
		 SET title = $1, description = $2, type = $3, due_date = $4, priority = $5, status = $6, updated_at = now()
		 WHERE id = $7`
	args := []any{f.Title, f.Description, string(f.Type), f.DueDate, string(f.Priority), string(f.Status), taskID}
	if ownerID != "" {
		owner, err := uuid.Parse(ownerID)
		if err != nil {
			return domain.ErrTaskNotFound
		}
		query += ` AND user_id = $8`
		args = append(args, owner)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) delete(ctx context.Context, id, ownerID string) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if ownerID == "" {
		_, err = r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
		return err
	}

	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil
	}
	_, err = r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, owner)
	return err
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t                     domain.Task
		typ, priority, status string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &typ, &t.DueDate,
		&priority, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Task{}, err
	}

	t.Type = domain.TaskType(typ)
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	if !t.Type.Valid() || !t.Priority.Valid() || !t.Status.Valid() {
		return domain.Task{}, fmt.Errorf("task %s has invalid stored values (type=%q priority=%q status=%q)", t.ID, typ, priority, status)
	}
	return t, nil
}

// OwnerTasks is a TaskRepository restricted to one owner. Updates and deletes
// of other owners' tasks behave as if the task did not exist.
type OwnerTasks struct {
	repo    *TaskRepository
	ownerID string
}

func (o *OwnerTasks) Create(ctx context.Context, ownerID string, f domain.TaskFields) (string, error) {
	if ownerID != o.ownerID {
		return "", ErrOwnerMismatch
	}
	return o.repo.Create(ctx, ownerID, f)
}

func (o *OwnerTasks) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if ownerID != o.ownerID {
		return nil, ErrOwnerMismatch
	}
	return o.repo.List(ctx, ownerID)
}

func (o *OwnerTasks) Update(ctx context.Context, id string, f domain.TaskFields) error {
	if o.ownerID == "" {
		return domain.ErrTaskNotFound
	}
	return o.repo.update(ctx, id, o.ownerID, f)
}

func (o *OwnerTasks) Delete(ctx context.Context, id string) error {
	if o.ownerID == "" {
		return nil
	}
	return o.repo.delete(ctx, id, o.ownerID)
}
