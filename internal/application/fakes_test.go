package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	nextID int
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = "u-" + strconv.Itoa(m.nextID)
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

type memPosts struct {
	mu     sync.Mutex
	byID   map[int64]*entity.Post
	nextID int64
}

func newMemPosts() *memPosts { return &memPosts{byID: map[int64]*entity.Post{}} }

func (m *memPosts) Create(_ context.Context, p *entity.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	p.PublishedAt = time.Now().UTC()
	p.UpdatedAt = nil
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) List(_ context.Context) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Post, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPosts) Search(ctx context.Context, q string, limit int) ([]entity.Post, error) {
	all, _ := m.List(ctx)
	out := make([]entity.Post, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title+" "+p.Content), strings.ToLower(q)) {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memPosts) Update(_ context.Context, p *entity.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPosts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memSessions struct {
	mu  sync.Mutex
	m   map[string]string
	ttl map[string]time.Duration
	err error
}

func newMemSessions() *memSessions {
	return &memSessions{m: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (s *memSessions) Create(_ context.Context, sid, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.m[sid] = userID
	s.ttl[sid] = ttl
	return nil
}

func (s *memSessions) Lookup(_ context.Context, sid string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	uid, ok := s.m[sid]
	return uid, ok, nil
}

func (s *memSessions) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sid)
	return nil
}

func (s *memSessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

type memQueue struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (q *memQueue) PublishJSON(_ context.Context, body any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, body)
	return nil
}

type memIndex struct {
	mu      sync.Mutex
	docs    map[int64]entity.Post
	hits    []int64
	err     error
	deleted []int64
}

func newMemIndex() *memIndex { return &memIndex{docs: map[int64]entity.Post{}} }

func (x *memIndex) Index(_ context.Context, p *entity.Post) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return x.err
	}
	x.docs[p.ID] = *p
	return nil
}

func (x *memIndex) Delete(_ context.Context, id int64) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	x.deleted = append(x.deleted, id)
	return x.err
}

func (x *memIndex) Search(_ context.Context, _ string, _ int) ([]int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return nil, x.err
	}
	return x.hits, nil
}

type memCovers struct {
	paths []string
	err   error
}

func (c *memCovers) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	c.paths = append(c.paths, objectPath)
	return "https://storage.googleapis.com/covers-bucket/" + objectPath, nil
}

var errBoom = errors.New("boom")
