package service

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// memTaskRepo is an in-memory TaskRepository for service tests.
type memTaskRepo struct {
	tasks map[string]domain.Task
	order []string
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[string]domain.Task{}}
}

func (r *memTaskRepo) Init(ctx context.Context) error { return nil }

func (r *memTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)
	return nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) Get(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return &t, nil
}

func (r *memTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(r.tasks))
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestTaskServiceCreateDefaults(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	task, err := svc.Create(context.Background(), domain.TaskInput{Title: "write docs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Error("no id assigned")
	}
	if task.Status != domain.StatusTodo {
		t.Errorf("status = %q, want %q", task.Status, domain.StatusTodo)
	}
	if task.CompletedAt != nil {
		t.Error("new todo task has completedAt set")
	}
	if task.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
}

func TestTaskServiceCreateRejectsInvalidInput(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	_, err := svc.Create(context.Background(), domain.TaskInput{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field("title") == "" {
		t.Error("title error missing")
	}
}

func TestTaskServiceCompletionTimestamp(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())
	ctx := context.Background()

	task, err := svc.Create(ctx, domain.TaskInput{Title: "triage bugs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done, err := svc.Complete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != domain.StatusDone || done.CompletedAt == nil {
		t.Fatalf("after Complete: status=%q completedAt=%v", done.Status, done.CompletedAt)
	}

	// Completing again is a no-op that keeps the original timestamp.
	again, err := svc.Complete(ctx, task.ID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if !again.CompletedAt.Equal(*done.CompletedAt) {
		t.Errorf("completedAt changed on repeat: %v vs %v", again.CompletedAt, done.CompletedAt)
	}

	// Reopening clears the timestamp.
	reopened, err := svc.Update(ctx, task.ID, domain.TaskInput{
		Title:  done.Title,
		Status: domain.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("reopened task keeps completedAt = %v", reopened.CompletedAt)
	}
}

func TestTaskServiceUpdateUnknownTask(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	_, err := svc.Update(context.Background(), "missing", domain.TaskInput{Title: "x"})
	if !errors.Is(err, repository.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}
