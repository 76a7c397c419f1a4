package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"taskboard/internal/api"
	"taskboard/internal/domain"
)

type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateAuthError
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthError:
		return "auth-error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Authenticator is the slice of the API client the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.Credential, error)
	Register(ctx context.Context, username, email, password string) (*api.Credential, error)
}

// credentialFile is the on-disk shape under the well-known path.
type credentialFile struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Store holds the authenticated identity for the process and persists the
// token across restarts. A store created over an existing credentials file
// starts out Authenticated optimistically; the first rejected call is
// expected to Invalidate it.
type Store struct {
	mu      sync.Mutex
	path    string
	state   State
	token   string
	user    *domain.User
	lastErr string
}

// DefaultPath returns the well-known credentials location for this user.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "taskboard", "credentials.json"), nil
}

// NewStore loads any persisted credentials from path. A missing or unreadable
// file simply yields an anonymous store.
func NewStore(path string) *Store {
	s := &Store{path: path, state: StateAnonymous}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var cred credentialFile
	if err := json.Unmarshal(raw, &cred); err != nil || cred.Token == "" {
		return s
	}
	s.token = cred.Token
	s.user = &cred.User
	s.state = StateAuthenticated
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LastError returns the failure message retained from the last login or
// registration attempt, for display until Acknowledge is called.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) Login(ctx context.Context, auth Authenticator, email, password string) error {
	s.begin()
	cred, err := auth.Login(ctx, email, password)
	return s.finish(cred, err)
}

func (s *Store) Register(ctx context.Context, auth Authenticator, username, email, password string) error {
	s.begin()
	cred, err := auth.Register(ctx, username, email, password)
	return s.finish(cred, err)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) finish(cred *api.Credential, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateAuthError
		s.lastErr = err.Error()
		return err
	}

	s.state = StateAuthenticated
	s.token = cred.Token
	user := cred.User
	s.user = &user
	if perr := s.persist(); perr != nil {
		// The session is still valid for this process; it just will not
		// survive a restart.
		return perr
	}
	return nil
}

// Acknowledge moves the store out of the error state once the failure has
// been shown to the user.
func (s *Store) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthError {
		s.state = StateAnonymous
		s.lastErr = ""
	}
}

// Logout drops the session and removes the persisted credentials.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
	s.lastErr = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Invalidate is Logout for the case where the server rejected our token.
func (s *Store) Invalidate() {
	_ = s.Logout()
}

func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	cred := credentialFile{Token: s.token}
	if s.user != nil {
		cred.User = *s.user
	}
	raw, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
