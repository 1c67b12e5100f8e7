package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/client"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-ddd-blog/internal/router"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := quietLogger()
	cfg := &config.Config{BcryptCost: 4, SessionTTL: time.Hour}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := memory.NewUserRepository()
	posts := memory.NewPostRepository(users)
	svc := router.Services{
		Auth: application.NewAuthService(users, helpers.NewJWTManager("test", cfg.SessionTTL),
			redisstore.NewSessionStore(rdb), nil, cfg, logger),
		Posts: application.NewPostService(posts, users, nil, nil, logger),
	}
	engine := gin.New()
	reg := router.NewRegistry(engine)
	router.RegisterModules(reg, svc, cfg, logger)
	reg.RegisterAll()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func run(t *testing.T, api client.Backend, store client.Storage, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := New(api, store, quietLogger(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func TestApp_FullSession(t *testing.T) {
	pipedInput(t)
	srv := newServer(t)
	api := client.NewAPI(srv.URL)
	store := client.NewMemoryStorage()

	out := run(t, api, store,
		"help",
		"register", "Ann", "ann@example.com", "123456",
		"new", "First post", "line one", "line two", "",
		"list",
		"show 1",
		"edit 1", "", "new body", "",
		"show 1",
		"show 99",
		"delete 1",
		"list",
		"exit",
	)

	assert.Contains(t, out, "Commands: register, login, exit")
	assert.Contains(t, out, "Welcome, Ann.")
	assert.Contains(t, out, "Created post #1.")
	assert.Contains(t, out, "#1  First post  (by Ann)")
	assert.Contains(t, out, "line one\nline two")
	assert.Contains(t, out, "You can edit or delete this post.")
	assert.Contains(t, out, "Updated post #1.")
	assert.Contains(t, out, "new body")
	assert.Contains(t, out, "(edited ")
	assert.Contains(t, out, "Post not found.")
	assert.Contains(t, out, "Deleted post #1.")
	assert.Contains(t, out, "No posts yet.")
	assert.Contains(t, out, "Bye!")

	// the session survives for the next run
	out = run(t, api, store, "list", "logout", "list")
	assert.Contains(t, out, "blog [Ann] /posts> ")
	assert.Contains(t, out, "You are logged out.")
	assert.Contains(t, out, "Please log in.")
}

func TestApp_OnlyAuthorMayModify(t *testing.T) {
	pipedInput(t)
	srv := newServer(t)
	api := client.NewAPI(srv.URL)

	run(t, api, client.NewMemoryStorage(),
		"register", "Ann", "ann@example.com", "123456",
		"new", "Ann's post", "hello", "",
	)
	out := run(t, api, client.NewMemoryStorage(),
		"register", "Bob", "bob@example.com", "abcdef",
		"show 1",
		"edit 1",
		"delete 1",
	)
	assert.NotContains(t, out, "You can edit or delete this post.")
	assert.Contains(t, out, "Only the author can edit this post.")
	assert.Contains(t, out, "Only the author can do that.")
}

func TestApp_LoginValidationAndFailure(t *testing.T) {
	pipedInput(t)
	srv := newServer(t)
	api := client.NewAPI(srv.URL)

	out := run(t, api, client.NewMemoryStorage(),
		"login", "not-an-email", "123456",
		"login", "ann@example.com", "12345",
		"login", "ann@example.com", "123456",
		"register", "Ann", "ann@example.com", "123456",
		"logout",
		"login", "ann@example.com", "123456",
	)
	assert.Equal(t, 2, strings.Count(out, "Enter a valid email and a password of at least 6 characters."))
	assert.Contains(t, out, "Login failed: wrong email or password.")
	assert.Contains(t, out, "Welcome back, Ann.")
}

func TestApp_Arguments(t *testing.T) {
	pipedInput(t)
	out := run(t, client.NewAPI("http://127.0.0.1:1"), client.NewMemoryStorage(),
		"show", "show abc", "delete -3", "frobnicate", "new")
	assert.Contains(t, out, "Usage: <command> <post id>")
	assert.Equal(t, 2, strings.Count(out, "Post id must be a positive number."))
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Log in first.")
}

func TestReadSecret_UsesTerminal(t *testing.T) {
	origTerm, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })

	var out bytes.Buffer
	pw, err := readSecret(bufio.NewReader(strings.NewReader("")), &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = readSecret(bufio.NewReader(strings.NewReader("")), &out)
	assert.Error(t, err)
}

func TestReadMultiline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("a\r\nb\n\nc\n"))
	got, err := readMultiline(r, io.Discard, "Body")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = readMultiline(bufio.NewReader(strings.NewReader("tail")), io.Discard, "Body")
	require.NoError(t, err)
	assert.Equal(t, "tail", got)
}
