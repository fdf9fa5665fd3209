// Package handler provides the HTTP handlers for the post feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/post/domain/entity"
	"social_backend/internal/feature/post/transport/http/dto"
	"social_backend/internal/feature/post/usecase"
	userusecase "social_backend/internal/feature/user/usecase"
	"social_backend/internal/platform/token"
)

// PostUsecase defines the post operations the transport layer invokes.
type PostUsecase interface {
	Create(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error)
	Update(ctx context.Context, actorID, postID string, in usecase.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, actorID, postID string) error
	Get(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context) ([]*entity.Post, error)
	ByAuthor(ctx context.Context, username string) ([]*entity.Post, error)
	ByCategory(ctx context.Context, category string) ([]*entity.Post, error)
}

// PostHandler handles HTTP requests for post CRUD and feed reads.
type PostHandler struct {
	posts PostUsecase
}

// NewPostHandler creates a new PostHandler instance.
func NewPostHandler(posts PostUsecase) *PostHandler {
	return &PostHandler{posts: posts}
}

// respondError maps post errors to HTTP status codes. An author
// mismatch is a 403: the request is well-formed but forbidden.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPostNotFound), errors.Is(err, userusecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		slog.Error("post operation failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Create handles POST /posts/.
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), token.UserID(c), usecase.CreateInput{
		Title:        req.Title,
		Author:       req.Author,
		Image:        req.Image,
		Body:         req.Body,
		GameCategory: req.GameCategory,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "author", post.Author)
	c.JSON(http.StatusCreated, gin.H{"post": post, "jwt": token.Rotated(c)})
}

// Update handles PATCH /posts/:postID.
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), token.UserID(c), c.Param("postID"), usecase.UpdateInput{
		Title:        req.Title,
		Image:        req.Image,
		Body:         req.Body,
		GameCategory: req.GameCategory,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "jwt": token.Rotated(c)})
}

// Delete handles DELETE /posts/:postID.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), token.UserID(c), c.Param("postID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully", "jwt": token.Rotated(c)})
}

// Get handles GET /posts/:postID.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("postID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "jwt": token.Rotated(c)})
}

// List handles GET /posts/.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "jwt": token.Rotated(c)})
}

// ByAuthor handles GET /posts/author/:username.
func (h *PostHandler) ByAuthor(c *gin.Context) {
	posts, err := h.posts.ByAuthor(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "jwt": token.Rotated(c)})
}

// ByCategory handles GET /posts/category/:category.
func (h *PostHandler) ByCategory(c *gin.Context) {
	posts, err := h.posts.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "jwt": token.Rotated(c)})
}
