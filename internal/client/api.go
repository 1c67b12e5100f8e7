// Package client is the Go side of the blog frontend: an HTTP client for the
// API and the session holder that keeps track of who is logged in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrBadRequest         = errors.New("bad request")
)

// APIError is returned for statuses without a dedicated sentinel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session is what the holder persists after login or registration.
type Session struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	Author      Author     `json:"author"`
	CoverURL    string     `json:"cover_url,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Backend is the set of calls the session holder makes.
type Backend interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	ListPosts(ctx context.Context, token string) ([]Post, error)
	GetPost(ctx context.Context, token string, id int64) (*Post, error)
	CreatePost(ctx context.Context, token, title, content string) (*Post, error)
	EditPost(ctx context.Context, token string, id int64, title, content *string) (*Post, error)
	DeletePost(ctx context.Context, token string, id int64) error
}

// API talks to the blog HTTP API.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: 15 * time.Second}}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (a *API) Login(ctx context.Context, email, password string) (*Session, error) {
	return a.auth(ctx, "/api/login", map[string]string{"email": email, "password": password})
}

func (a *API) Register(ctx context.Context, name, email, password string) (*Session, error) {
	return a.auth(ctx, "/api/register", map[string]string{"name": name, "email": email, "password": password})
}

func (a *API) auth(ctx context.Context, path string, body any) (*Session, error) {
	var d authData
	err := a.do(ctx, http.MethodPost, path, "", body, &d)
	if errors.Is(err, ErrUnauthorized) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &Session{Name: d.Name, Email: d.Email, UserID: d.ID, Token: d.Token}, nil
}

func (a *API) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/api/logout", token, nil, nil)
}

func (a *API) ListPosts(ctx context.Context, token string) ([]Post, error) {
	var list []Post
	if err := a.do(ctx, http.MethodGet, "/api/posts", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func postPath(id int64) string { return "/api/posts/" + strconv.FormatInt(id, 10) }

func (a *API) GetPost(ctx context.Context, token string, id int64) (*Post, error) {
	var p Post
	if err := a.do(ctx, http.MethodGet, postPath(id), token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	var p Post
	body := map[string]string{"title": title, "content": content}
	if err := a.do(ctx, http.MethodPost, "/api/posts", token, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) EditPost(ctx context.Context, token string, id int64, title, content *string) (*Post, error) {
	var p Post
	body := struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}{title, content}
	if err := a.do(ctx, http.MethodPut, postPath(id), token, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) DeletePost(ctx context.Context, token string, id int64) error {
	return a.do(ctx, http.MethodDelete, postPath(id), token, nil, nil)
}

// do sends one request. The token goes in the Authorization header as is.
func (a *API) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	res, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if res.StatusCode >= 400 {
			return statusError(res.StatusCode, res.Status)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if res.StatusCode >= 400 {
		return statusError(res.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func statusError(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicateEmail
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	default:
		return &APIError{Status: status, Message: msg}
	}
}

var _ Backend = (*API)(nil)
