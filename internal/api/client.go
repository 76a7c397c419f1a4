package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"taskboard/internal/domain"
)

// TokenSource yields the bearer token for the current session, or "" when
// nobody is logged in.
type TokenSource interface {
	Token() string
}

// Credential is what a successful login or registration hands back.
type Credential struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Client talks to the taskboard REST API. Each method issues exactly one
// request; there is no automatic retry, transient failures surface as a
// *NetworkError and the caller decides what to do.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credential, error) {
	var cred Credential
	err := c.do(ctx, http.MethodPost, "/api/auth/login", domain.LoginInput{Email: email, Password: password}, &cred, false)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Credential, error) {
	body := domain.RegisterInput{Username: username, Email: email, Password: password}
	var cred Credential
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &cred, false); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out struct {
		Users []domain.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	var out struct {
		Task domain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &out, true); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	var out struct {
		Task domain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), in, &out, true); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	var out struct {
		Task domain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/complete", nil, &out, true); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// errorBody is the server's JSON error envelope. Validation failures carry a
// field-to-message map, everything else a single message.
type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	op := fmt.Sprintf("%s %s", method, path)

	var token string
	if authed {
		token = c.tokens.Token()
		if token == "" {
			return &AuthError{Reason: "no session token"}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debugf("%s -> %d", op, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return translateFailure(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func translateFailure(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		reason := body.Error
		if reason == "" {
			reason = "token rejected"
		}
		return &AuthError{Reason: reason}
	case (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity) && len(body.Errors) > 0:
		return &domain.ValidationError{Fields: body.Errors}
	default:
		return &ServerError{Status: resp.StatusCode, Message: body.Error}
	}
}
