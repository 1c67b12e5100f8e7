package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// PostRepository persists posts. Reads return posts with AuthorName filled in.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	// List returns every post in insertion order.
	List(ctx context.Context) ([]entity.Post, error)
	// Search matches q against title and content, insertion order.
	Search(ctx context.Context, q string, limit int) ([]entity.Post, error)
	// Update writes title, content, cover_url and updated_at of p.
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id int64) error
}
