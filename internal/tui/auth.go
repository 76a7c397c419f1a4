package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/domain"
)

// loginForm is the email/password screen shown while anonymous.
type loginForm struct {
	inputs     []textinput.Model
	focus      int
	fieldErrs  map[string]string
	formErr    string
	submitting bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return loginForm{inputs: []textinput.Model{email, password}}
}

func (f *loginForm) focusCmd() tea.Cmd {
	return f.setFocus(0)
}

func (f *loginForm) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &a.login

	switch msg := msg.(type) {
	case authDoneMsg:
		f.submitting = false
		if msg.err != nil {
			a.store.Acknowledge()
			var verr *domain.ValidationError
			if errors.As(msg.err, &verr) {
				f.fieldErrs = verr.Fields
			} else {
				f.formErr = msg.err.Error()
			}
			return a, nil
		}
		return a, a.enterDashboard()

	case tea.KeyMsg:
		if f.submitting {
			return a, nil
		}
		switch msg.String() {
		case "esc":
			return a, tea.Quit
		case "ctrl+r":
			a.screen = screenRegister
			a.reg = newRegisterForm()
			return a, a.reg.focusCmd()
		case "tab", "down":
			return a, f.setFocus((f.focus + 1) % len(f.inputs))
		case "shift+tab", "up":
			return a, f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		case "enter":
			return a, a.submitLogin()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return a, cmd
}

func (a *App) submitLogin() tea.Cmd {
	f := &a.login
	email := strings.TrimSpace(f.inputs[0].Value())
	password := f.inputs[1].Value()

	in := domain.LoginInput{Email: email, Password: password}
	if err := in.Validate(); err != nil {
		var verr *domain.ValidationError
		errors.As(err, &verr)
		f.fieldErrs = verr.Fields
		return nil
	}

	f.fieldErrs = nil
	f.formErr = ""
	f.submitting = true
	return a.loginCmd(email, password)
}

func (a *App) viewLogin() string {
	f := &a.login
	var b strings.Builder

	b.WriteString(styleHeader.Render("Taskboard — log in"))
	b.WriteString("\n\n")
	if a.notice != "" {
		b.WriteString(styleToast.Render(a.notice))
		b.WriteString("\n\n")
	}

	labels := []string{"Email", "Password"}
	fields := []string{"email", "password"}
	for i, input := range f.inputs {
		b.WriteString(styleFieldLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
		if msg := f.fieldErrs[fields[i]]; msg != "" {
			b.WriteString(styleError.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f.formErr != "" {
		b.WriteString(styleError.Render(f.formErr))
		b.WriteString("\n\n")
	}
	if f.submitting {
		b.WriteString(styleMuted.Render("Signing in..."))
		b.WriteString("\n\n")
	}

	b.WriteString(styleMuted.Render("enter: sign in   ctrl+r: create an account   esc: quit"))
	return b.String()
}

// registerForm is the account creation screen.
type registerForm struct {
	inputs     []textinput.Model
	focus      int
	fieldErrs  map[string]string
	formErr    string
	submitting bool
}

func newRegisterForm() registerForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword

	return registerForm{inputs: []textinput.Model{username, email, password, confirm}}
}

func (f *registerForm) focusCmd() tea.Cmd {
	return f.setFocus(0)
}

func (f *registerForm) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (a *App) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &a.reg

	switch msg := msg.(type) {
	case authDoneMsg:
		f.submitting = false
		if msg.err != nil {
			a.store.Acknowledge()
			var verr *domain.ValidationError
			if errors.As(msg.err, &verr) {
				f.fieldErrs = verr.Fields
			} else {
				f.formErr = msg.err.Error()
			}
			return a, nil
		}
		return a, a.enterDashboard()

	case tea.KeyMsg:
		if f.submitting {
			return a, nil
		}
		switch msg.String() {
		case "esc", "ctrl+l":
			a.screen = screenLogin
			a.login = newLoginForm()
			return a, a.login.focusCmd()
		case "tab", "down":
			return a, f.setFocus((f.focus + 1) % len(f.inputs))
		case "shift+tab", "up":
			return a, f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		case "enter":
			return a, a.submitRegister()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return a, cmd
}

func (a *App) submitRegister() tea.Cmd {
	f := &a.reg
	in := domain.RegisterInput{
		Username: strings.TrimSpace(f.inputs[0].Value()),
		Email:    strings.TrimSpace(f.inputs[1].Value()),
		Password: f.inputs[2].Value(),
		Confirm:  f.inputs[3].Value(),
	}
	if err := in.Validate(); err != nil {
		var verr *domain.ValidationError
		errors.As(err, &verr)
		f.fieldErrs = verr.Fields
		return nil
	}

	f.fieldErrs = nil
	f.formErr = ""
	f.submitting = true
	return a.registerCmd(in.Username, in.Email, in.Password)
}

func (a *App) viewRegister() string {
	f := &a.reg
	var b strings.Builder

	b.WriteString(styleHeader.Render("Taskboard — create an account"))
	b.WriteString("\n\n")

	labels := []string{"Username", "Email", "Password", "Confirm password"}
	fields := []string{"username", "email", "password", "confirm"}
	for i, input := range f.inputs {
		b.WriteString(styleFieldLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
		if msg := f.fieldErrs[fields[i]]; msg != "" {
			b.WriteString(styleError.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f.formErr != "" {
		b.WriteString(styleError.Render(f.formErr))
		b.WriteString("\n\n")
	}
	if f.submitting {
		b.WriteString(styleMuted.Render("Creating account..."))
		b.WriteString("\n\n")
	}

	b.WriteString(styleMuted.Render("enter: create account   esc: back to login"))
	return b.String()
}
