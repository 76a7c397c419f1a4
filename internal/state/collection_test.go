package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/domain"
)

// fakeAPI scripts one response per call and counts traffic.
type fakeAPI struct {
	listResults  [][]domain.Task
	listErr      error
	users        []domain.User
	createResult *domain.Task
	createErr    error
	updateQueue  []*domain.Task
	updateErr    error
	deleteErr    error
	completeTask *domain.Task
	completeErr  error

	calls int
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.listResults) == 0 {
		return nil, nil
	}
	tasks := f.listResults[0]
	if len(f.listResults) > 1 {
		f.listResults = f.listResults[1:]
	}
	return tasks, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.calls++
	return f.users, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	f.calls++
	return f.createResult, f.createErr
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	task := f.updateQueue[0]
	if len(f.updateQueue) > 1 {
		f.updateQueue = f.updateQueue[1:]
	}
	return task, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.calls++
	return f.deleteErr
}

func (f *fakeAPI) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	f.calls++
	return f.completeTask, f.completeErr
}

func task(id, title string, status domain.Status) domain.Task {
	return domain.Task{ID: id, Title: title, Status: status, CreatedAt: time.Now()}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestLoadReplacesCacheWholesale(t *testing.T) {
	f := &fakeAPI{listResults: [][]domain.Task{
		{task("1", "A", domain.StatusTodo), task("2", "B", domain.StatusDone)},
		{task("3", "C", domain.StatusTodo)},
	}}
	c := NewCollection(f)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(c.Tasks()); len(got) != 2 {
		t.Fatalf("tasks after first load: %v", got)
	}

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := c.Tasks()
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("tasks after second load: %v", ids(got))
	}
}

func TestLoadFailureKeepsPreviousCache(t *testing.T) {
	f := &fakeAPI{listResults: [][]domain.Task{{
		task("1", "A", domain.StatusTodo),
		task("2", "B", domain.StatusTodo),
		task("3", "C", domain.StatusTodo),
	}}}
	c := NewCollection(f)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	f.listErr = &api.NetworkError{Op: "GET /api/tasks", Err: errors.New("connection refused")}
	err := c.Load(context.Background())

	var nerr *api.NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *api.NetworkError, got %T (%v)", err, err)
	}
	if got := ids(c.Tasks()); len(got) != 3 {
		t.Errorf("cache changed on failed load: %v", got)
	}
}

func TestCreateValidatesBeforeAnyNetworkCall(t *testing.T) {
	f := &fakeAPI{}
	c := NewCollection(f)

	_, err := c.Create(context.Background(), domain.TaskInput{Title: ""})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if f.calls != 0 {
		t.Errorf("expected no API call for invalid input, got %d", f.calls)
	}
	if len(c.Tasks()) != 0 {
		t.Error("cache changed on rejected create")
	}
}

func TestCreatePrependsServerTask(t *testing.T) {
	existing := task("1", "Old", domain.StatusTodo)
	created := task("2", "New", domain.StatusTodo)
	f := &fakeAPI{
		listResults:  [][]domain.Task{{existing}},
		createResult: &created,
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	got, err := c.Create(context.Background(), domain.TaskInput{Title: "New"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "2" {
		t.Errorf("returned task id = %q", got.ID)
	}
	want := []string{"2", "1"}
	gotIDs := ids(c.Tasks())
	if len(gotIDs) != 2 || gotIDs[0] != want[0] || gotIDs[1] != want[1] {
		t.Errorf("cache order = %v, want %v", gotIDs, want)
	}
}

func TestCreateFailureLeavesCacheUnchanged(t *testing.T) {
	f := &fakeAPI{
		listResults: [][]domain.Task{{task("1", "A", domain.StatusTodo)}},
		createErr:   &api.ServerError{Status: 500, Message: "boom"},
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	if _, err := c.Create(context.Background(), domain.TaskInput{Title: "New"}); err == nil {
		t.Fatal("expected create error")
	}
	if got := ids(c.Tasks()); len(got) != 1 || got[0] != "1" {
		t.Errorf("cache changed on failed create: %v", got)
	}
}

func TestUpdateAppliesServerCopy(t *testing.T) {
	server := task("1", "Renamed by server", domain.StatusInProgress)
	f := &fakeAPI{
		listResults: [][]domain.Task{{task("1", "A", domain.StatusTodo), task("2", "B", domain.StatusTodo)}},
		updateQueue: []*domain.Task{&server},
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	if _, err := c.Update(context.Background(), "1", domain.TaskInput{Title: "Renamed"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := c.Tasks()
	if got[0].Title != "Renamed by server" || got[0].Status != domain.StatusInProgress {
		t.Errorf("cache entry = %+v, want server copy", got[0])
	}
	if got[1].ID != "2" {
		t.Errorf("unrelated entry disturbed: %v", ids(got))
	}
}

func TestSequentialUpdatesLastResponseWins(t *testing.T) {
	first := task("1", "First", domain.StatusTodo)
	second := task("1", "Second", domain.StatusInProgress)
	f := &fakeAPI{
		listResults: [][]domain.Task{{task("1", "A", domain.StatusTodo)}},
		updateQueue: []*domain.Task{&first, &second},
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	if _, err := c.Update(context.Background(), "1", domain.TaskInput{Title: "First"}); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	if _, err := c.Update(context.Background(), "1", domain.TaskInput{Title: "Second"}); err != nil {
		t.Fatalf("second Update: %v", err)
	}

	got := c.Tasks()
	if len(got) != 1 || got[0].Title != "Second" || got[0].Status != domain.StatusInProgress {
		t.Errorf("cache = %+v, want second server response exactly", got)
	}
}

func TestRemoveOnlyAfterServerConfirms(t *testing.T) {
	f := &fakeAPI{
		listResults: [][]domain.Task{{task("1", "A", domain.StatusTodo), task("2", "B", domain.StatusTodo)}},
		deleteErr:   &api.NetworkError{Op: "DELETE /api/tasks/1", Err: errors.New("timeout")},
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	if err := c.Remove(context.Background(), "1"); err == nil {
		t.Fatal("expected delete error")
	}
	if got := ids(c.Tasks()); len(got) != 2 {
		t.Errorf("cache changed on failed delete: %v", got)
	}

	f.deleteErr = nil
	if err := c.Remove(context.Background(), "1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := ids(c.Tasks()); len(got) != 1 || got[0] != "2" {
		t.Errorf("cache after delete: %v", got)
	}
}

func TestCreateThenRemoveRoundTrip(t *testing.T) {
	existing := task("1", "A", domain.StatusTodo)
	created := task("2", "B", domain.StatusTodo)
	f := &fakeAPI{
		listResults:  [][]domain.Task{{existing}},
		createResult: &created,
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())
	before := ids(c.Tasks())

	if _, err := c.Create(context.Background(), domain.TaskInput{Title: "B"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := c.Remove(context.Background(), "2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	after := ids(c.Tasks())
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("cache = %v, want pre-create content %v", after, before)
	}
}

func TestCompleteAppliesCompletionTimestamp(t *testing.T) {
	now := time.Now()
	completed := task("1", "A", domain.StatusDone)
	completed.CompletedAt = &now
	f := &fakeAPI{
		listResults:  [][]domain.Task{{task("1", "A", domain.StatusTodo)}},
		completeTask: &completed,
	}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	got, err := c.Complete(context.Background(), "1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Status != domain.StatusDone || got.CompletedAt == nil {
		t.Errorf("completed task = %+v", got)
	}

	// A second complete is idempotent from the cache's point of view.
	if _, err := c.Complete(context.Background(), "1"); err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	cached, ok := c.Get("1")
	if !ok || cached.Status != domain.StatusDone || cached.CompletedAt == nil {
		t.Errorf("cached task after repeat complete = %+v", cached)
	}
}

func TestStatsCountUnfilteredCache(t *testing.T) {
	f := &fakeAPI{listResults: [][]domain.Task{{
		task("1", "A", domain.StatusTodo),
		task("2", "B", domain.StatusTodo),
		task("3", "C", domain.StatusInProgress),
		task("4", "D", domain.StatusDone),
	}}}
	c := NewCollection(f)
	_ = c.Load(context.Background())

	got := c.Stats()
	want := Stats{Total: 4, Todo: 2, InProgress: 1, Done: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestUsernameResolvesAssignees(t *testing.T) {
	f := &fakeAPI{users: []domain.User{
		{ID: "u-1", Username: "alice"},
		{ID: "u-2", Username: "bob"},
	}}
	c := NewCollection(f)
	if err := c.LoadUsers(context.Background()); err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if got := c.Username("u-2"); got != "bob" {
		t.Errorf("Username(u-2) = %q", got)
	}
	if got := c.Username("u-9"); got != "" {
		t.Errorf("Username(u-9) = %q, want empty", got)
	}
}
