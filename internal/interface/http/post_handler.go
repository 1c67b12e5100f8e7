package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

const maxCoverBytes = 5 << 20

type PostService interface {
	Create(ctx context.Context, authorID string, in application.CreatePostInput) (*entity.Post, error)
	List(ctx context.Context) ([]entity.Post, error)
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	Edit(ctx context.Context, id int64, callerID string, in application.EditPostInput) (*entity.Post, error)
	Delete(ctx context.Context, id int64, callerID string) error
	Search(ctx context.Context, q string, size int) ([]entity.Post, error)
	UploadCover(ctx context.Context, id int64, callerID string, r io.Reader, filename, contentType string) (*entity.Post, error)
}

type PostHandler struct {
	Svc    PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	AuthorID string `json:"author_id"` // only read for anonymous requests
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type postResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	AuthorID    string         `json:"author_id"`
	Author      authorResponse `json:"author"`
	CoverURL    string         `json:"cover_url,omitempty"`
	PublishedAt time.Time      `json:"published_at"`
	UpdatedAt   *time.Time     `json:"updated_at"`
}

func toPostResponse(p *entity.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		Author:      authorResponse{ID: p.AuthorID, Name: p.AuthorName},
		CoverURL:    p.CoverURL,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(list []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(list))
	for i := range list {
		out = append(out, toPostResponse(&list[i]))
	}
	return out
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid post id", nil)
		return 0, false
	}
	return id, true
}

// Create publishes a post. The author is the token holder when there is one,
// otherwise the author_id from the body.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	authorID := middleware.UserID(c)
	if authorID == "" {
		authorID = strings.TrimSpace(req.AuthorID)
	}
	p, err := h.Svc.Create(c.Request.Context(), authorID, application.CreatePostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toPostResponse(p), "post created", nil)
}

func (h *PostHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponses(list), "posts", gin.H{"count": len(list)})
}

func (h *PostHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	list, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponses(list), "search results", gin.H{"count": len(list)})
}

func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "post", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Title == nil && req.Content == nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "nothing to update"})
		return
	}
	p, err := h.Svc.Edit(c.Request.Context(), id, middleware.UserID(c), application.EditPostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "post updated", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadCover accepts a multipart "cover" image of at most 5 MiB.
func (h *PostHandler) UploadCover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("cover")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"cover": "is required"})
		return
	}
	if fh.Size > maxCoverBytes {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"cover": "must be at most 5MB"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"cover": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadCover(c.Request.Context(), id, middleware.UserID(c), f, fh.Filename, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "cover uploaded", nil)
}
