package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// TaskService coordinates task level operations backed by repositories.
type TaskService interface {
	Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error)
	Complete(ctx context.Context, id string) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
	}
	if task.Status == domain.StatusDone {
		task.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = in.DueDate
	task.AssignedTo = in.AssignedTo
	if in.Status != "" {
		task.Status = in.Status
	}

	// CompletedAt tracks the done status in both directions.
	switch {
	case task.Status == domain.StatusDone && task.CompletedAt == nil:
		now := time.Now().UTC()
		task.CompletedAt = &now
	case task.Status != domain.StatusDone:
		task.CompletedAt = nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Complete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Completing an already done task re-confirms the existing state.
	if task.Status == domain.StatusDone && task.CompletedAt != nil {
		return task, nil
	}

	now := time.Now().UTC()
	task.Status = domain.StatusDone
	task.CompletedAt = &now

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

func (s *taskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}
