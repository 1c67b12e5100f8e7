// Package memory holds process-local repositories for STORE_DRIVER=memory.
// Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]entity.User{}, byEmail: map[string]string{}}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// PostRepository resolves author names through users, like the SQL join does.
type PostRepository struct {
	mu     sync.RWMutex
	users  *UserRepository
	byID   map[int64]entity.Post
	nextID int64
}

func NewPostRepository(users *UserRepository) *PostRepository {
	return &PostRepository{users: users, byID: map[int64]entity.Post{}}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if _, err := r.users.GetByID(ctx, p.AuthorID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.PublishedAt = time.Now().UTC()
	p.UpdatedAt = nil
	r.byID[p.ID] = *p
	return nil
}

func (r *PostRepository) withAuthor(ctx context.Context, p entity.Post) entity.Post {
	if u, err := r.users.GetByID(ctx, p.AuthorID); err == nil {
		p.AuthorName = u.Name
	}
	return p
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	r.mu.RLock()
	p, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.withAuthor(ctx, p)
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	return r.filter(ctx, func(entity.Post) bool { return true }, 0), nil
}

func (r *PostRepository) Search(ctx context.Context, q string, limit int) ([]entity.Post, error) {
	q = strings.ToLower(q)
	return r.filter(ctx, func(p entity.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q)
	}, limit), nil
}

func (r *PostRepository) filter(ctx context.Context, keep func(entity.Post) bool, limit int) []entity.Post {
	r.mu.RLock()
	out := make([]entity.Post, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i] = r.withAuthor(ctx, out[i])
	}
	return out
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	old.Title, old.Content, old.CoverURL, old.UpdatedAt = p.Title, p.Content, p.CoverURL, p.UpdatedAt
	r.byID[p.ID] = old
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.PostRepository = (*PostRepository)(nil)
)
