package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

// SessionStore binds a session id to a user id on the server side.
type SessionStore interface {
	Create(ctx context.Context, sid, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sid string) (userID string, ok bool, err error)
	Delete(ctx context.Context, sid string) error
}

// EmailQueue accepts email jobs for asynchronous delivery.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore // nil: the signed token alone is authoritative
	Emails   EmailQueue   // nil: no notification mail
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, sessions SessionStore, emails EmailQueue, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Sessions: sessions, Emails: emails, Cfg: cfg, Logger: logger}
}

// AuthResult is what a successful login or registration hands back to the caller.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Identity is the user a token resolves to.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	SessionID string
}

type clientInfoKey struct{}

// ClientInfo describes the caller for login notifications.
type ClientInfo struct {
	IP        string
	UserAgent string
}

func ContextWithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ci)
}

func clientInfoFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return ci
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	res, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	ci := clientInfoFrom(ctx)
	s.notify(ctx, mailtpl.LoginNotification, u,
		mailtpl.WithIP(ci.IP), mailtpl.WithUserAgent(ci.UserAgent), mailtpl.WithTime(time.Now()))
	return res, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: strings.TrimSpace(name), Email: email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	res, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, mailtpl.Welcome, u)
	return res, nil
}

// Logout revokes the session behind token. Without a session store it only validates the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return ErrUnauthorized
	}
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, claims.SessionID)
}

// ResolveToken maps a token to the identity of its user or returns ErrUnauthorized.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.Sessions != nil {
		uid, ok, err := s.Sessions.Lookup(ctx, claims.SessionID)
		if err != nil {
			return nil, fmt.Errorf("session lookup: %w", err)
		}
		if !ok || uid != claims.UserID {
			return nil, ErrUnauthorized
		}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &Identity{UserID: u.ID, Name: u.Name, Email: u.Email, SessionID: claims.SessionID}, nil
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.Generate(u.ID, sid)
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	if s.Sessions != nil {
		if err := s.Sessions.Create(ctx, sid, u.ID, s.Cfg.SessionTTL); err != nil {
			helpers.LogError(s.Logger, "store session failed", err, logrus.Fields{"user_id": u.ID})
			return nil, err
		}
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// notify queues a templated email. Failures are logged and never surface to the caller.
func (s *AuthService) notify(ctx context.Context, template string, u *entity.User, opts ...mailtpl.Option) {
	if s.Emails == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := mailtpl.NewBaseEmailData(s.Cfg, template, u.Name, u.Email, opts...)
	job := mailer.EmailJob{To: u.Email, Template: template, Data: mailtpl.ToMap(data)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Emails.PublishJSON(c, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"template": template, "user_id": u.ID}).Warn("enqueue email failed")
	}
}
