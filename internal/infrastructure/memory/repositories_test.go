package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Name: "Ada", Email: "ada@example.com", Password: "h"}
	require.NoError(t, r.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	assert.ErrorIs(t, r.Create(ctx, &entity.User{Email: "ada@example.com"}), repository.ErrDuplicate)

	got, err := r.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	r := NewPostRepository(users)
	ada := &entity.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, users.Create(ctx, ada))

	assert.ErrorIs(t, r.Create(ctx, &entity.Post{Title: "x", AuthorID: "ghost"}), repository.ErrNotFound)

	for _, title := range []string{"Go generics", "Rust", "Go modules"} {
		require.NoError(t, r.Create(ctx, &entity.Post{Title: title, Content: "c", AuthorID: ada.ID}))
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "Ada", list[2].AuthorName)

	hits, err := r.Search(ctx, "go", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Go generics", hits[0].Title)

	now := time.Now().UTC()
	p := list[1]
	p.Title, p.AuthorID, p.UpdatedAt = "Rust 2024", "someone-else", &now
	require.NoError(t, r.Update(ctx, &p))
	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rust 2024", got.Title)
	assert.Equal(t, ada.ID, got.AuthorID)

	require.NoError(t, r.Delete(ctx, p.ID))
	assert.ErrorIs(t, r.Delete(ctx, p.ID), repository.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, &p), repository.ErrNotFound)
}
