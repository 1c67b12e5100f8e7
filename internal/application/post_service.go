package application

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

// PostIndexer mirrors posts into a search engine.
type PostIndexer interface {
	Index(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]int64, error)
}

// CoverStore stores cover images and returns their public URL.
type CoverStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Index  PostIndexer // nil: search runs against Postgres
	Covers CoverStore  // nil: cover uploads are unavailable
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, index PostIndexer, covers CoverStore, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Index: index, Covers: covers, Logger: logger, Now: time.Now}
}

type CreatePostInput struct {
	Title   string
	Content string
}

// EditPostInput carries a partial update; nil fields are left unchanged.
type EditPostInput struct {
	Title   *string
	Content *string
}

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

func (s *PostService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	if authorID == "" {
		return nil, ErrAuthorRequired
	}
	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ErrInvalidInput
	}
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err)
	}
	p := &entity.Post{Title: title, Content: content, AuthorID: author.ID, AuthorName: author.Name}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, notFound(err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	return s.Posts.List(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// owned loads post id and checks that callerID wrote it.
func (s *PostService) owned(ctx context.Context, id int64, callerID string) (*entity.Post, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(callerID) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PostService) Edit(ctx context.Context, id int64, callerID string, in EditPostInput) (*entity.Post, error) {
	p, err := s.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, ErrInvalidInput
		}
		p.Title = t
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		if c == "" {
			return nil, ErrInvalidInput
		}
		p.Content = c
	}
	now := s.now()
	p.UpdatedAt = &now
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, notFound(err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id int64, callerID string) error {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// Search finds posts matching q. Elasticsearch is preferred; when it is absent or
// failing the query runs against Postgres.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]entity.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Post{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, size)
		if err == nil {
			return s.loadAll(ctx, ids)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to postgres")
		}
	}
	return s.Posts.Search(ctx, q, size)
}

// loadAll fetches posts in ids order, skipping ones deleted since they were indexed.
func (s *PostService) loadAll(ctx context.Context, ids []int64) ([]entity.Post, error) {
	out := make([]entity.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.Posts.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *PostService) UploadCover(ctx context.Context, id int64, callerID string, r io.Reader, filename, contentType string) (*entity.Post, error) {
	if s.Covers == nil {
		return nil, ErrStorageUnavailable
	}
	p, err := s.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(filename))
	objectPath := path.Join("covers", strconv.FormatInt(id, 10), uuid.NewString()+ext)
	url, err := s.Covers.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	// a cover is not an edit; updated_at is left as is
	p.CoverURL = url
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
	}
}
