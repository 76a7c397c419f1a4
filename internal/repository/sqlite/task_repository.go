package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	due_date DATETIME NULL,
	assigned_to TEXT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	completed_at DATETIME NULL
);
`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, title, description, status, due_date, assigned_to, created_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.AssignedTo,
		task.CreatedAt,
		task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, status = ?, due_date = ?, assigned_to = ?, completed_at = ?
WHERE id = ?`,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.AssignedTo,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, status, due_date, assigned_to, created_at, completed_at
FROM tasks
WHERE id = ?`,
		id,
	)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, status, due_date, assigned_to, created_at, completed_at
FROM tasks
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task       domain.Task
		status     string
		dueDate    sql.NullTime
		assignedTo sql.NullString
		completed  sql.NullTime
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&dueDate,
		&assignedTo,
		&task.CreatedAt,
		&completed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = domain.Status(status)
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if assignedTo.Valid {
		v := assignedTo.String
		task.AssignedTo = &v
	}
	if completed.Valid {
		t := completed.Time
		task.CompletedAt = &t
	}
	return &task, nil
}
