package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

var postCols = []string{"id", "title", "content", "author_id", "name", "cover_url", "published_at", "updated_at"}

func TestPostRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)
	published := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("Title", "Body", "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "published_at"}).AddRow(int64(1), published))

	p := &entity.Post{Title: "Title", Content: "Body", AuthorID: "u-1"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, published, p.PublishedAt)
	assert.Nil(t, p.UpdatedAt)
}

func TestPostRepository_CreateUnknownAuthor(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("T", "C", "ghost").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &entity.Post{Title: "T", Content: "C", AuthorID: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)
	published := time.Now().UTC()
	updated := published.Add(time.Minute)

	mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(postCols).
			AddRow(int64(9), "T", "C", "u-1", "Ada", "", published, &updated))

	p, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.AuthorName)
	require.NotNil(t, p.UpdatedAt)
	assert.Equal(t, updated, *p.UpdatedAt)
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_ListOrdered(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`ORDER BY p.id ASC`).
		WillReturnRows(pgxmock.NewRows(postCols).
			AddRow(int64(1), "first", "a", "u-1", "Ada", "", now, (*time.Time)(nil)).
			AddRow(int64(2), "second", "b", "u-2", "Bob", "https://cdn/x.png", now, (*time.Time)(nil)))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "Bob", list[1].AuthorName)
}

func TestPostRepository_ListEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`FROM posts p`).WillReturnRows(pgxmock.NewRows(postCols))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPostRepository_Search(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`ILIKE \$1`).
		WithArgs("%go%", 10).
		WillReturnRows(pgxmock.NewRows(postCols))

	_, err := repo.Search(context.Background(), "go", 10)
	require.NoError(t, err)
}

func TestPostRepository_SearchEscapesWildcards(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`ILIKE \$1 ESCAPE`).
		WithArgs(`%100\%\_off\\%`, 5).
		WillReturnRows(pgxmock.NewRows(postCols))

	_, err := repo.Search(context.Background(), `100%_off\`, 5)
	require.NoError(t, err)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%go%", containsPattern("go"))
	assert.Equal(t, `%\%%`, containsPattern("%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
}

func TestPostRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)
	now := time.Now().UTC()
	p := &entity.Post{ID: 3, Title: "new", Content: "body", UpdatedAt: &now}

	mock.ExpectExec(`UPDATE posts`).
		WithArgs(int64(3), "new", "body", "", &now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Update(context.Background(), p))

	mock.ExpectExec(`UPDATE posts`).
		WithArgs(int64(3), "new", "body", "", &now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Update(context.Background(), p), repository.ErrNotFound)
}

func TestPostRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectExec(`DELETE FROM posts`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM posts`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), repository.ErrNotFound)
}
