package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/domain"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func TestAuthenticatedCallAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tasks":[{"id":"t-1","title":"A","status":"todo"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("tok-123"))
	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization header = %q, want Bearer tok-123", gotAuth)
	}
	if len(tasks) != 1 || tasks[0].ID != "t-1" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestMissingTokenFailsBeforeAnyRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken(""))
	_, err := client.ListTasks(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	if requests != 0 {
		t.Errorf("expected no request to be sent, got %d", requests)
	}
}

func TestUnauthorizedTranslatesToAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid or expired token"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("stale"))
	_, err := client.Profile(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	if authErr.Reason != "invalid or expired token" {
		t.Errorf("reason = %q", authErr.Reason)
	}
}

func TestFieldErrorsTranslateToValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"title":"title is required"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("tok"))
	_, err := client.CreateTask(context.Background(), domain.TaskInput{})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if verr.Field("title") != "title is required" {
		t.Errorf("title error = %q", verr.Field("title"))
	}
}

func TestOtherStatusesTranslateToServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("tok"))
	err := client.DeleteTask(context.Background(), "t-1")

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ServerError, got %T (%v)", err, err)
	}
	if serr.Status != http.StatusInternalServerError || serr.Message != "boom" {
		t.Errorf("unexpected server error: %+v", serr)
	}
}

func TestTransportFailureTranslatesToNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := New(srv.URL, staticToken("tok"))
	_, err := client.ListTasks(context.Background())

	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NetworkError, got %T (%v)", err, err)
	}
}

func TestLoginRequiresNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login sent Authorization header %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-1","user":{"id":"u-1","username":"bob","email":"bob@b.io"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken(""))
	cred, err := client.Login(context.Background(), "bob@b.io", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if cred.Token != "tok-1" || cred.User.Username != "bob" {
		t.Errorf("unexpected credential: %+v", cred)
	}
}
