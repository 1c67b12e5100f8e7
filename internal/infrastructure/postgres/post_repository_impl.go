package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

const selectPosts = `
		SELECT p.id, p.title, p.content, p.author_id, u.name, p.cover_url, p.published_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, published_at
	`, p.Title, p.Content, p.AuthorID)

	if err := row.Scan(&p.ID, &p.PublishedAt); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return err
	}
	p.UpdatedAt = nil
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}
	err := r.db.QueryRow(ctx, selectPosts+`
		WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName, &p.CoverURL, &p.PublishedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	return r.query(ctx, selectPosts+`
		ORDER BY p.id ASC`)
}

func (r *PostRepository) Search(ctx context.Context, q string, limit int) ([]entity.Post, error) {
	return r.query(ctx, selectPosts+`
		WHERE p.title ILIKE $1 ESCAPE '\' OR p.content ILIKE $1 ESCAPE '\'
		ORDER BY p.id ASC
		LIMIT $2`, containsPattern(q), limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches q literally anywhere in the column.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, cover_url = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Title, p.Content, p.CoverURL, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) query(ctx context.Context, query string, args ...any) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]entity.Post, 0)
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName, &p.CoverURL, &p.PublishedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
