package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Routes the holder navigates to.
const (
	RouteLogin    = "/login"
	RoutePosts    = "/posts"
	RouteNotFound = "/notfound"
)

const sessionSlot = "user"

var ErrUnknownField = errors.New("unknown form field")

// Navigator moves the user interface to another view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Holder owns the client-side session: the persisted login, the form inputs
// and the flags derived from them. It is safe for concurrent use.
type Holder struct {
	api    Backend
	store  Storage
	nav    Navigator
	logger *logrus.Logger

	mu               sync.Mutex
	session          *Session
	form             map[string]string
	loginDisabled    bool
	registerDisabled bool
	failedLogin      bool
	failedRegister   bool
}

// NewHolder builds a holder and restores a previously saved session from store.
func NewHolder(api Backend, store Storage, nav Navigator, logger *logrus.Logger) *Holder {
	if logger == nil {
		logger = logrus.New()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	h := &Holder{
		api:              api,
		store:            store,
		nav:              nav,
		logger:           logger,
		form:             map[string]string{},
		loginDisabled:    true,
		registerDisabled: true,
	}
	h.restore()
	return h
}

func (h *Holder) restore() {
	raw, ok, err := h.store.Get(sessionSlot)
	if err != nil {
		h.logger.WithError(err).Warn("read saved session")
		return
	}
	if !ok {
		return
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.Token == "" {
		h.logger.Warn("discarding unreadable saved session")
		_ = h.store.Clear()
		return
	}
	h.session = &s
}

func (h *Holder) LoggedIn() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session != nil
}

// Session returns a copy of the current session, or nil when logged out.
func (h *Holder) Session() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return nil
	}
	s := *h.session
	return &s
}

func (h *Holder) LoginDisabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loginDisabled
}

func (h *Holder) RegisterDisabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registerDisabled
}

func (h *Holder) FailedLogin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failedLogin
}

func (h *Holder) FailedRegister() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failedRegister
}

// Field returns the current value of a form input.
func (h *Holder) Field(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.form[name]
}

// ChangeField records a form input and recomputes which submit actions are enabled.
func (h *Holder) ChangeField(name, value string) error {
	if !knownField(name) {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.form[name] = value
	h.recompute()
	return nil
}

// ResetInputs clears every form input.
func (h *Holder) ResetInputs() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.form = map[string]string{}
	h.recompute()
}

func (h *Holder) recompute() {
	h.loginDisabled = !ValidateCredentials(h.form[FieldLoginEmail], h.form[FieldLoginPassword])
	h.registerDisabled = !ValidateCredentials(h.form[FieldRegisterEmail], h.form[FieldRegisterPassword])
}

func knownField(name string) bool {
	for _, f := range formFields {
		if f == name {
			return true
		}
	}
	return false
}

// Login authenticates with the given credentials. A rejected attempt only
// sets FailedLogin; the current session is left alone.
func (h *Holder) Login(ctx context.Context, c Credentials) bool {
	s, err := h.api.Login(ctx, c.Email, c.Password)
	if err != nil {
		h.logger.WithError(err).Info("login failed")
		h.mu.Lock()
		h.failedLogin = true
		h.mu.Unlock()
		return false
	}
	if err := h.persist(s); err != nil {
		h.logger.WithError(err).Warn("save session")
	}
	h.mu.Lock()
	h.session = s
	h.failedLogin = false
	h.mu.Unlock()
	return true
}

// Register creates an account and logs in as it.
func (h *Holder) Register(ctx context.Context, c Credentials) bool {
	s, err := h.api.Register(ctx, c.Name, c.Email, c.Password)
	if err != nil {
		h.logger.WithError(err).Info("register failed")
		h.mu.Lock()
		h.failedRegister = true
		h.mu.Unlock()
		return false
	}
	if err := h.persist(s); err != nil {
		h.logger.WithError(err).Warn("save session")
	}
	h.mu.Lock()
	h.session = s
	h.failedRegister = false
	h.mu.Unlock()
	return true
}

// LoginFromForm submits the login inputs.
func (h *Holder) LoginFromForm(ctx context.Context) bool {
	return h.Login(ctx, Credentials{Email: h.Field(FieldLoginEmail), Password: h.Field(FieldLoginPassword)})
}

// RegisterFromForm submits the register inputs.
func (h *Holder) RegisterFromForm(ctx context.Context) bool {
	return h.Register(ctx, Credentials{
		Name:     h.Field(FieldRegisterName),
		Email:    h.Field(FieldRegisterEmail),
		Password: h.Field(FieldRegisterPassword),
	})
}

func (h *Holder) persist(s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return h.store.Set(sessionSlot, b)
}

// LogOut ends the session locally even when the server call fails.
func (h *Holder) LogOut(ctx context.Context) {
	if token := h.token(); token != "" {
		if err := h.api.Logout(ctx, token); err != nil && !errors.Is(err, ErrUnauthorized) {
			h.logger.WithError(err).Warn("server logout failed")
		}
	}
	h.clearSession()
	h.nav.Navigate(RouteLogin)
}

func (h *Holder) token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return ""
	}
	return h.session.Token
}

func (h *Holder) clearSession() {
	if err := h.store.Clear(); err != nil {
		h.logger.WithError(err).Warn("clear saved session")
	}
	h.mu.Lock()
	h.session = nil
	h.mu.Unlock()
}

// authed runs a call that needs a token and turns ErrUnauthorized into a logout.
func (h *Holder) authed(call func(token string) error) error {
	token := h.token()
	if token == "" {
		h.nav.Navigate(RouteLogin)
		return ErrUnauthorized
	}
	err := call(token)
	if errors.Is(err, ErrUnauthorized) {
		h.clearSession()
		h.nav.Navigate(RouteLogin)
	}
	return err
}

func (h *Holder) ListPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	err := h.authed(func(token string) (err error) {
		out, err = h.api.ListPosts(ctx, token)
		return err
	})
	return out, err
}

// FetchPost loads one post. A missing post sends the user to the not-found
// view without touching the session.
func (h *Holder) FetchPost(ctx context.Context, id int64) (*Post, error) {
	var out *Post
	err := h.authed(func(token string) (err error) {
		out, err = h.api.GetPost(ctx, token, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		h.nav.Navigate(RouteNotFound)
	}
	return out, err
}

func (h *Holder) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	var out *Post
	err := h.authed(func(token string) (err error) {
		out, err = h.api.CreatePost(ctx, token, title, content)
		return err
	})
	return out, err
}

func (h *Holder) EditPost(ctx context.Context, id int64, title, content *string) (*Post, error) {
	var out *Post
	err := h.authed(func(token string) (err error) {
		out, err = h.api.EditPost(ctx, token, id, title, content)
		return err
	})
	return out, err
}

// DeletePost removes a post and returns to the list. Failures are logged and
// returned so callers can tell a forbidden delete from a missing post.
func (h *Holder) DeletePost(ctx context.Context, id int64) error {
	err := h.authed(func(token string) error {
		return h.api.DeletePost(ctx, token, id)
	})
	if err != nil {
		h.logger.WithError(err).WithField("post_id", id).Warn("delete post failed")
		return err
	}
	h.nav.Navigate(RoutePosts)
	return nil
}

// CanModify reports whether the logged-in user wrote p.
func (h *Holder) CanModify(p Post) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session != nil && h.session.UserID != "" && h.session.UserID == p.AuthorID
}
