package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskboard/internal/api"
	"taskboard/internal/domain"
)

type fakeAuth struct {
	cred *api.Credential
	err  error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.Credential, error) {
	return f.cred, f.err
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (*api.Credential, error) {
	return f.cred, f.err
}

func credPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.json")
}

func TestFreshStoreIsAnonymous(t *testing.T) {
	s := NewStore(credPath(t))
	if s.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
	if s.Token() != "" {
		t.Errorf("token = %q, want empty", s.Token())
	}
}

func TestLoginSuccessPersistsAcrossRestarts(t *testing.T) {
	path := credPath(t)
	auth := &fakeAuth{cred: &api.Credential{
		Token: "tok-1",
		User:  domain.User{ID: "u-1", Username: "bob", Email: "bob@b.io"},
	}}

	s := NewStore(path)
	if err := s.Login(context.Background(), auth, "bob@b.io", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}

	// A fresh store over the same path starts out authenticated.
	restored := NewStore(path)
	if restored.State() != StateAuthenticated {
		t.Errorf("restored state = %v, want authenticated", restored.State())
	}
	if restored.Token() != "tok-1" {
		t.Errorf("restored token = %q", restored.Token())
	}
	if u := restored.User(); u == nil || u.Username != "bob" {
		t.Errorf("restored user = %+v", u)
	}
}

func TestLoginFailureEntersErrorStateUntilAcknowledged(t *testing.T) {
	s := NewStore(credPath(t))
	auth := &fakeAuth{err: &api.AuthError{Reason: "invalid credentials"}}

	err := s.Login(context.Background(), auth, "bob@b.io", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if s.State() != StateAuthError {
		t.Fatalf("state = %v, want auth-error", s.State())
	}
	if s.LastError() != "invalid credentials" {
		t.Errorf("last error = %q", s.LastError())
	}

	s.Acknowledge()
	if s.State() != StateAnonymous {
		t.Errorf("state after acknowledge = %v, want anonymous", s.State())
	}
	if s.LastError() != "" {
		t.Errorf("last error after acknowledge = %q", s.LastError())
	}
}

func TestLogoutClearsPersistedCredentials(t *testing.T) {
	path := credPath(t)
	auth := &fakeAuth{cred: &api.Credential{Token: "tok-1", User: domain.User{ID: "u-1"}}}

	s := NewStore(path)
	if err := s.Login(context.Background(), auth, "a@b.io", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.State() != StateAnonymous || s.Token() != "" {
		t.Errorf("state = %v token = %q after logout", s.State(), s.Token())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("credentials file still present after logout: %v", err)
	}
}

func TestInvalidateDropsOptimisticSession(t *testing.T) {
	path := credPath(t)
	auth := &fakeAuth{cred: &api.Credential{Token: "stale", User: domain.User{ID: "u-1"}}}

	s := NewStore(path)
	if err := s.Login(context.Background(), auth, "a@b.io", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Simulate a restart followed by the server rejecting the stored token.
	restored := NewStore(path)
	if restored.State() != StateAuthenticated {
		t.Fatalf("restored state = %v", restored.State())
	}
	restored.Invalidate()
	if restored.State() != StateAnonymous {
		t.Errorf("state after invalidate = %v, want anonymous", restored.State())
	}
	if NewStore(path).State() != StateAnonymous {
		t.Error("credentials survived invalidation")
	}
}

func TestRegisterFailurePropagatesError(t *testing.T) {
	s := NewStore(credPath(t))
	want := &domain.ValidationError{Fields: map[string]string{"username": "taken"}}
	auth := &fakeAuth{err: want}

	err := s.Register(context.Background(), auth, "bob", "bob@b.io", "secret")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %T (%v)", err, err)
	}
	if s.State() != StateAuthError {
		t.Errorf("state = %v, want auth-error", s.State())
	}
}
