package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain"
)

// ErrTaskNotFound is returned when no task matches the requested identifier.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository exposes persistence operations for Task aggregates.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
}
