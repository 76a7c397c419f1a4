package state

import (
	"context"
	"sync"

	"taskboard/internal/domain"
)

// API is the slice of the client the collection drives. Mutations go to the
// server first; the cache only ever reflects confirmed server state.
type API interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)
}

// Stats are the dashboard header counters, computed over the unfiltered cache.
type Stats struct {
	Total      int
	Todo       int
	InProgress int
	Done       int
}

// Collection is the in-memory task and user cache for the active session.
// It is the only owner of that cache: readers get copies, and every mutation
// applies the server's returned representation rather than a local patch.
//
// When a reload races an in-flight mutation, responses are applied in
// completion order; the last response to arrive wins.
type Collection struct {
	mu    sync.Mutex
	api   API
	tasks []domain.Task
	users []domain.User
}

func NewCollection(api API) *Collection {
	return &Collection{api: api}
}

// Load fetches the full task list and replaces the cache wholesale. On
// failure the previous cache is kept as-is, stale but available.
func (c *Collection) Load(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	return nil
}

// LoadUsers refreshes the read-only user list used for assignee display.
func (c *Collection) LoadUsers(ctx context.Context) error {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	return nil
}

// Create validates the input locally and, on success, prepends the server's
// returned task (with its generated id and timestamps) to the cache. Invalid
// input never reaches the network.
func (c *Collection) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	task, err := c.api.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tasks = append([]domain.Task{*task}, c.tasks...)
	c.mu.Unlock()
	return task, nil
}

// Update sends the edit to the server and replaces the matching cache entry
// with the returned representation, picking up any server-computed fields.
func (c *Collection) Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	task, err := c.api.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.replace(*task)
	return task, nil
}

// Remove deletes from the cache only after the server confirms the deletion.
func (c *Collection) Remove(ctx context.Context, id string) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Complete marks the task done on the server and applies the returned copy,
// which carries the server-set completion timestamp.
func (c *Collection) Complete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := c.api.CompleteTask(ctx, id)
	if err != nil {
		return nil, err
	}
	c.replace(*task)
	return task, nil
}

// Tasks returns a copy of the current cache in server order.
func (c *Collection) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Users returns a copy of the cached user list.
func (c *Collection) Users() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.User, len(c.users))
	copy(out, c.users)
	return out
}

func (c *Collection) Get(id string) (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Username resolves a user id to its username for assignee display.
func (c *Collection) Username(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

func (c *Collection) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Total: len(c.tasks)}
	for _, t := range c.tasks {
		switch t.Status {
		case domain.StatusTodo:
			s.Todo++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusDone:
			s.Done++
		}
	}
	return s
}

// replace swaps the cache entry matching the server copy's id in place. If
// the entry vanished from the cache in the meantime the server copy is
// prepended, since the server just confirmed it exists.
func (c *Collection) replace(task domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
	c.tasks = append([]domain.Task{task}, c.tasks...)
}
