package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	minPasswordLen    = 6
	minUsernameLen    = 3
)

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

// ValidationError reports per-field constraint violations. Forms render the
// messages inline next to the offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for a field, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// Validate checks the form level constraints before any network call is made.
func (in TaskInput) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	} else if utf8.RuneCountInString(in.Title) > maxTitleLen {
		fields["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLen)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		fields["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)
	}
	if in.Status != "" && !in.Status.Valid() {
		fields["status"] = fmt.Sprintf("unknown status %q", in.Status)
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	fields := map[string]string{}
	validateEmail(fields, in.Email)
	validatePassword(fields, in.Password)
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// RegisterInput is the registration form. Confirm is a client-side field
// only; it is never transmitted.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

func (in RegisterInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Username) == "" {
		fields["username"] = "username is required"
	} else if utf8.RuneCountInString(strings.TrimSpace(in.Username)) < minUsernameLen {
		fields["username"] = fmt.Sprintf("username must be at least %d characters", minUsernameLen)
	}
	validateEmail(fields, in.Email)
	validatePassword(fields, in.Password)
	if in.Confirm != in.Password {
		fields["confirm"] = "passwords do not match"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validateEmail(fields map[string]string, email string) {
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "email is invalid"
	}
}

func validatePassword(fields map[string]string, password string) {
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}
}
