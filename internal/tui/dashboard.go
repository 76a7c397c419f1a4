package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/api"
	"taskboard/internal/domain"
	"taskboard/internal/filter"
)

// dashModel holds the dashboard screen state. The task data itself lives in
// the collection; the model only keeps view state: cursor, filters, and the
// per-task pending flags that lock a task while a call is in flight.
type dashModel struct {
	loading bool
	cursor  int

	search      textinput.Model
	searching   bool
	statusIdx   int // 0 = all, otherwise Statuses()[statusIdx-1]
	assigneeIdx int // 0 = all, otherwise Users()[assigneeIdx-1]

	pending   map[string]bool
	confirmID string
	toast     string

	form *taskForm
}

func newDashModel() dashModel {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.CharLimit = 100
	return dashModel{
		search:  search,
		pending: map[string]bool{},
	}
}

func (a *App) criteria() filter.Criteria {
	d := &a.dash
	var c filter.Criteria
	if d.statusIdx > 0 {
		c.Status = domain.Statuses()[d.statusIdx-1]
	}
	if users := a.col.Users(); d.assigneeIdx > 0 && d.assigneeIdx <= len(users) {
		c.AssignedTo = users[d.assigneeIdx-1].ID
	}
	c.Search = strings.TrimSpace(d.search.Value())
	return c
}

// visible recomputes the filtered view from the latest cache snapshot.
func (a *App) visible() []domain.Task {
	return filter.Apply(a.col.Tasks(), a.criteria())
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.dash.cursor >= n {
		a.dash.cursor = n - 1
	}
	if a.dash.cursor < 0 {
		a.dash.cursor = 0
	}
}

func (a *App) selected() (domain.Task, bool) {
	tasks := a.visible()
	if a.dash.cursor < 0 || a.dash.cursor >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[a.dash.cursor], true
}

func (a *App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := &a.dash

	switch msg := msg.(type) {
	case tasksLoadedMsg:
		d.loading = false
		if msg.err != nil {
			return a.opFailed(msg.err, "could not refresh tasks")
		}
		a.clampCursor()
		return a, nil

	case usersLoadedMsg:
		if msg.err != nil {
			return a.opFailed(msg.err, "could not load users")
		}
		return a, nil

	case taskSavedMsg:
		if d.form != nil {
			d.form.saving = false
		}
		if msg.err != nil {
			return a.saveFailed(msg.err)
		}
		d.form = nil
		d.toast = fmt.Sprintf("Saved %q", msg.task.Title)
		a.clampCursor()
		return a, nil

	case taskDeletedMsg:
		delete(d.pending, msg.id)
		if msg.err != nil {
			return a.opFailed(msg.err, "delete failed")
		}
		d.toast = "Task deleted"
		a.clampCursor()
		return a, nil

	case taskCompletedMsg:
		delete(d.pending, msg.id)
		if msg.err != nil {
			return a.opFailed(msg.err, "complete failed")
		}
		d.toast = "Task completed"
		return a, nil
	}

	if d.form != nil {
		return a.updateForm(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	d.toast = ""

	if d.confirmID != "" {
		id := d.confirmID
		d.confirmID = ""
		if key.String() == "y" {
			d.pending[id] = true
			return a, a.deleteTaskCmd(id)
		}
		return a, nil
	}

	if d.searching {
		switch key.String() {
		case "esc":
			d.searching = false
			d.search.Blur()
			d.search.SetValue("")
			a.clampCursor()
			return a, nil
		case "enter":
			d.searching = false
			d.search.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		d.search, cmd = d.search.Update(msg)
		a.clampCursor()
		return a, cmd
	}

	switch key.String() {
	case "q", "esc":
		return a, tea.Quit

	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(a.visible())-1 {
			d.cursor++
		}

	case "n":
		d.form = newTaskForm(a.col.Users())
		return a, d.form.focusCmd()

	case "enter", "e":
		if t, ok := a.selected(); ok && !d.pending[t.ID] {
			d.form = editTaskForm(t, a.col.Users())
			return a, d.form.focusCmd()
		}

	case "c":
		if t, ok := a.selected(); ok && !d.pending[t.ID] {
			d.pending[t.ID] = true
			return a, a.completeTaskCmd(t.ID)
		}

	case "d":
		if t, ok := a.selected(); ok && !d.pending[t.ID] {
			d.confirmID = t.ID
		}

	case "/":
		d.searching = true
		return a, d.search.Focus()

	case "s":
		d.statusIdx = (d.statusIdx + 1) % (len(domain.Statuses()) + 1)
		a.clampCursor()
	case "a":
		d.assigneeIdx = (d.assigneeIdx + 1) % (len(a.col.Users()) + 1)
		a.clampCursor()
	case "x":
		d.statusIdx = 0
		d.assigneeIdx = 0
		d.search.SetValue("")
		a.clampCursor()

	case "r":
		d.loading = true
		return a, tea.Batch(a.loadTasksCmd(), a.loadUsersCmd())
	}

	return a, nil
}

// opFailed routes an operation error: auth failures drop the session, the
// rest become a toast while the cached tasks stay on screen.
func (a *App) opFailed(err error, prefix string) (tea.Model, tea.Cmd) {
	msg, drop := a.classify(err)
	if drop {
		return a, a.dropSession(msg)
	}
	a.dash.toast = prefix + ": " + msg
	return a, nil
}

// saveFailed keeps the form open so the user can correct and retry.
func (a *App) saveFailed(err error) (tea.Model, tea.Cmd) {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return a, a.dropSession(authErr.Reason)
	}
	if a.dash.form == nil {
		a.dash.toast = "save failed: " + err.Error()
		return a, nil
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		a.dash.form.fieldErrs = verr.Fields
	} else {
		a.dash.form.formErr = err.Error()
	}
	return a, nil
}

func (a *App) viewDashboard() string {
	d := &a.dash
	if d.form != nil {
		return a.viewForm()
	}

	var b strings.Builder

	name := "taskboard"
	if u := a.store.User(); u != nil {
		name = u.Username
	}
	b.WriteString(styleHeader.Render("Taskboard"))
	b.WriteString(styleMuted.Render("  " + name))
	b.WriteString("\n")

	stats := a.col.Stats()
	b.WriteString(styleMuted.Render(fmt.Sprintf(
		"%d tasks  %d to do  %d in progress  %d done",
		stats.Total, stats.Todo, stats.InProgress, stats.Done)))
	b.WriteString("\n")

	if line := a.filterLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case d.loading:
		b.WriteString(styleMuted.Render("Loading tasks..."))
		b.WriteString("\n")
	default:
		tasks := a.visible()
		if len(tasks) == 0 {
			if a.criteria().IsZero() {
				b.WriteString(styleMuted.Render("No tasks yet. Press n to create one."))
			} else {
				b.WriteString(styleMuted.Render("No tasks match the current filters. Press x to reset."))
			}
			b.WriteString("\n")
		}
		for i, t := range tasks {
			b.WriteString(a.taskRow(t, i == d.cursor))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if d.confirmID != "" {
		title := d.confirmID
		if t, ok := a.col.Get(d.confirmID); ok {
			title = t.Title
		}
		b.WriteString(styleError.Render(fmt.Sprintf("Delete %q? (y/n)", title)))
		b.WriteString("\n")
	} else if d.toast != "" {
		b.WriteString(styleToast.Render(d.toast))
		b.WriteString("\n")
	}

	b.WriteString(styleMuted.Render(
		"n: new  enter: edit  c: complete  d: delete  /: search  s: status  a: assignee  x: reset  r: reload  q: quit"))
	return b.String()
}

// filterLine describes the active filters, or "" when none are set.
func (a *App) filterLine() string {
	d := &a.dash
	var parts []string
	if d.statusIdx > 0 {
		parts = append(parts, "status: "+domain.Statuses()[d.statusIdx-1].Label())
	}
	if users := a.col.Users(); d.assigneeIdx > 0 && d.assigneeIdx <= len(users) {
		parts = append(parts, "assignee: "+users[d.assigneeIdx-1].Username)
	}
	if d.searching {
		return styleFilterActive.Render(strings.Join(append(parts, "search: "), "  ")) + d.search.View()
	}
	if s := strings.TrimSpace(d.search.Value()); s != "" {
		parts = append(parts, "search: "+s)
	}
	if len(parts) == 0 {
		return ""
	}
	return styleFilterActive.Render(strings.Join(parts, "  "))
}

func (a *App) taskRow(t domain.Task, selected bool) string {
	marker := "  "
	if selected {
		marker = styleFilterActive.Render("> ")
	}

	status := statusStyle(string(t.Status)).Render(fmt.Sprintf("%-11s", t.Status.Label()))

	title := t.Title
	if a.dash.pending[t.ID] {
		title += styleMuted.Render("  (working...)")
	}

	var details []string
	if t.DueDate != nil {
		details = append(details, "due "+t.DueDate.Format("2006-01-02"))
	}
	if t.AssignedTo != nil {
		details = append(details, a.col.Username(*t.AssignedTo))
	}
	line := marker + status + " " + title
	if len(details) > 0 {
		line += styleMuted.Render("  " + strings.Join(details, "  "))
	}
	if selected && t.Description != "" {
		line += "\n    " + styleMuted.Render(t.Description)
	}
	return line
}
