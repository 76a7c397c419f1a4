package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/domain"
)

const formFieldCount = 5

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldStatus
	fieldAssignee
)

// taskForm edits one task. An empty id means create.
type taskForm struct {
	id string

	title       textinput.Model
	description textarea.Model
	due         textinput.Model
	statusIdx   int
	assigneeIdx int // 0 = unassigned, otherwise users[assigneeIdx-1]
	users       []domain.User

	focus     int
	fieldErrs map[string]string
	formErr   string
	saving    bool
}

func newTaskForm(users []domain.User) *taskForm {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 100

	description := textarea.New()
	description.Placeholder = "Details (optional)"
	description.CharLimit = 500
	description.SetHeight(4)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10

	return &taskForm{
		title:       title,
		description: description,
		due:         due,
		users:       users,
	}
}

// editTaskForm pre-fills the form from an existing task.
func editTaskForm(t domain.Task, users []domain.User) *taskForm {
	f := newTaskForm(users)
	f.id = t.ID
	f.title.SetValue(t.Title)
	f.description.SetValue(t.Description)
	if t.DueDate != nil {
		f.due.SetValue(t.DueDate.Format("2006-01-02"))
	}
	for i, s := range domain.Statuses() {
		if s == t.Status {
			f.statusIdx = i
		}
	}
	if t.AssignedTo != nil {
		for i, u := range users {
			if u.ID == *t.AssignedTo {
				f.assigneeIdx = i + 1
			}
		}
	}
	return f
}

func (f *taskForm) focusCmd() tea.Cmd {
	return f.setFocus(fieldTitle)
}

func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = i
	f.title.Blur()
	f.description.Blur()
	f.due.Blur()
	switch i {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.description.Focus()
	case fieldDue:
		return f.due.Focus()
	}
	return nil
}

func (f *taskForm) status() domain.Status {
	return domain.Statuses()[f.statusIdx]
}

func (f *taskForm) assigneeName() string {
	if f.assigneeIdx == 0 {
		return "unassigned"
	}
	return f.users[f.assigneeIdx-1].Username
}

func (f *taskForm) cycle(delta int) {
	switch f.focus {
	case fieldStatus:
		n := len(domain.Statuses())
		f.statusIdx = (f.statusIdx + delta + n) % n
	case fieldAssignee:
		n := len(f.users) + 1
		f.assigneeIdx = (f.assigneeIdx + delta + n) % n
	}
}

// buildInput assembles the TaskInput and validates it locally. On failure the
// field errors are recorded for inline display and ok is false.
func (f *taskForm) buildInput() (domain.TaskInput, bool) {
	in := domain.TaskInput{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		Status:      f.status(),
	}
	fields := map[string]string{}

	if raw := strings.TrimSpace(f.due.Value()); raw != "" {
		when, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields["dueDate"] = "due date must look like 2025-12-31"
		} else {
			in.DueDate = &when
		}
	}
	if f.assigneeIdx > 0 {
		id := f.users[f.assigneeIdx-1].ID
		in.AssignedTo = &id
	}

	if err := in.Validate(); err != nil {
		var verr *domain.ValidationError
		errors.As(err, &verr)
		for name, msg := range verr.Fields {
			fields[name] = msg
		}
	}
	if len(fields) > 0 {
		f.fieldErrs = fields
		return domain.TaskInput{}, false
	}
	f.fieldErrs = nil
	f.formErr = ""
	return in, true
}

// updateForm handles input while the task form is open. It returns the
// command to run, or closes the form by clearing dash.form.
func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := a.dash.form

	if key, ok := msg.(tea.KeyMsg); ok {
		if f.saving {
			return a, nil
		}
		switch key.String() {
		case "esc":
			a.dash.form = nil
			return a, nil
		case "tab":
			return a, f.setFocus((f.focus + 1) % formFieldCount)
		case "shift+tab":
			return a, f.setFocus((f.focus + formFieldCount - 1) % formFieldCount)
		case "left", "right":
			if f.focus == fieldStatus || f.focus == fieldAssignee {
				if key.String() == "left" {
					f.cycle(-1)
				} else {
					f.cycle(1)
				}
				return a, nil
			}
		case "enter":
			// The description field needs enter for newlines.
			if f.focus != fieldDescription {
				return a, a.submitForm()
			}
		case "ctrl+s":
			return a, a.submitForm()
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return a, cmd
}

func (a *App) submitForm() tea.Cmd {
	f := a.dash.form
	in, ok := f.buildInput()
	if !ok {
		return nil
	}
	f.saving = true
	return a.saveTaskCmd(f.id, in)
}

func (a *App) viewForm() string {
	f := a.dash.form
	var b strings.Builder

	heading := "New task"
	if f.id != "" {
		heading = "Edit task"
	}
	b.WriteString(styleHeader.Render(heading))
	b.WriteString("\n\n")

	writeField := func(label, view, errKey string) {
		b.WriteString(styleFieldLabel.Render(label))
		b.WriteString("\n")
		b.WriteString(view)
		b.WriteString("\n")
		if msg := f.fieldErrs[errKey]; msg != "" {
			b.WriteString(styleError.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeField("Title", f.title.View(), "title")
	writeField("Description", f.description.View(), "description")
	writeField("Due date", f.due.View(), "dueDate")

	statusLine := f.status().Label()
	if f.focus == fieldStatus {
		statusLine = styleFilterActive.Render("< " + statusLine + " >")
	}
	writeField("Status", statusLine, "status")

	assigneeLine := f.assigneeName()
	if f.focus == fieldAssignee {
		assigneeLine = styleFilterActive.Render("< " + assigneeLine + " >")
	}
	writeField("Assignee", assigneeLine, "assignedTo")

	if f.formErr != "" {
		b.WriteString(styleError.Render(f.formErr))
		b.WriteString("\n\n")
	}
	if f.saving {
		b.WriteString(styleMuted.Render("Saving..."))
		b.WriteString("\n\n")
	}

	b.WriteString(styleMuted.Render("tab: next field   left/right: change value   enter: save   esc: cancel"))
	return styleCard.Render(b.String())
}
