package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/domain"
)

// opTimeout bounds every API call issued from the dashboard. The UI stays
// responsive while a call is pending; only the affected entity is locked.
const opTimeout = 15 * time.Second

type authDoneMsg struct {
	err error
}

type tasksLoadedMsg struct {
	err error
}

type usersLoadedMsg struct {
	err error
}

// taskSavedMsg reports a finished create or update. id is empty for create.
type taskSavedMsg struct {
	id   string
	task *domain.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

type taskCompletedMsg struct {
	id  string
	err error
}

func (a *App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return authDoneMsg{err: a.store.Login(ctx, a.client, email, password)}
	}
}

func (a *App) registerCmd(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return authDoneMsg{err: a.store.Register(ctx, a.client, username, email, password)}
	}
}

func (a *App) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return tasksLoadedMsg{err: a.col.Load(ctx)}
	}
}

func (a *App) loadUsersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return usersLoadedMsg{err: a.col.LoadUsers(ctx)}
	}
}

func (a *App) saveTaskCmd(id string, in domain.TaskInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if id == "" {
			task, err := a.col.Create(ctx, in)
			return taskSavedMsg{task: task, err: err}
		}
		task, err := a.col.Update(ctx, id, in)
		return taskSavedMsg{id: id, task: task, err: err}
	}
}

func (a *App) deleteTaskCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return taskDeletedMsg{id: id, err: a.col.Remove(ctx, id)}
	}
}

func (a *App) completeTaskCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := a.col.Complete(ctx, id)
		return taskCompletedMsg{id: id, err: err}
	}
}
