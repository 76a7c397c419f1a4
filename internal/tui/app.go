// Package tui renders the taskboard dashboard: authentication screens, the
// filterable task list, and the task form, all driven by the session store
// and the task collection.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/api"
	"taskboard/internal/session"
	"taskboard/internal/state"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenDashboard
)

// App is the top level bubbletea model. It owns the screen routing and the
// shared session/collection handles; each screen keeps its own input state.
type App struct {
	store  *session.Store
	client *api.Client
	col    *state.Collection

	width  int
	height int

	screen screen
	login  loginForm
	reg    registerForm
	dash   dashModel

	notice string // shown on the auth screens, e.g. "session expired"
}

// Run starts the interactive dashboard and blocks until the user quits.
func Run(store *session.Store, client *api.Client) error {
	app := NewApp(store, client)
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func NewApp(store *session.Store, client *api.Client) *App {
	a := &App{
		store:  store,
		client: client,
		col:    state.NewCollection(client),
		login:  newLoginForm(),
		reg:    newRegisterForm(),
		dash:   newDashModel(),
	}
	if store.State() == session.StateAuthenticated {
		a.screen = screenDashboard
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		a.dash.loading = true
		return tea.Batch(a.loadTasksCmd(), a.loadUsersCmd())
	}
	return a.login.focusCmd()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.screen {
	case screenLogin:
		return a.updateLogin(msg)
	case screenRegister:
		return a.updateRegister(msg)
	default:
		return a.updateDashboard(msg)
	}
}

func (a *App) View() string {
	switch a.screen {
	case screenLogin:
		return a.viewLogin()
	case screenRegister:
		return a.viewRegister()
	default:
		return a.viewDashboard()
	}
}

// enterDashboard switches to the dashboard and kicks off the initial fetch.
func (a *App) enterDashboard() tea.Cmd {
	a.screen = screenDashboard
	a.dash = newDashModel()
	a.dash.loading = true
	a.notice = ""
	return tea.Batch(a.loadTasksCmd(), a.loadUsersCmd())
}

// dropSession handles a token rejected mid-session: back to login with an
// explanation, per the error policy for auth failures.
func (a *App) dropSession(reason string) tea.Cmd {
	a.store.Invalidate()
	a.screen = screenLogin
	a.login = newLoginForm()
	a.notice = fmt.Sprintf("Session expired (%s) — please log in again", reason)
	return a.login.focusCmd()
}

// classify splits an operation error into (toast message, session drop).
func (a *App) classify(err error) (string, bool) {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return err.Error(), false
}
