package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"social_backend/internal/feature/post/domain/entity"
	"social_backend/internal/feature/post/usecase"
	"social_backend/internal/platform/token"
)

// mockPostUsecase はPostUsecaseインターフェースのモック実装です。
type mockPostUsecase struct {
	CreateFunc     func(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error)
	UpdateFunc     func(ctx context.Context, actorID, postID string, in usecase.UpdateInput) (*entity.Post, error)
	DeleteFunc     func(ctx context.Context, actorID, postID string) error
	GetFunc        func(ctx context.Context, id string) (*entity.Post, error)
	ListFunc       func(ctx context.Context) ([]*entity.Post, error)
	ByAuthorFunc   func(ctx context.Context, username string) ([]*entity.Post, error)
	ByCategoryFunc func(ctx context.Context, category string) ([]*entity.Post, error)
}

func (m *mockPostUsecase) Create(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actorID, in)
	}
	return &entity.Post{Title: in.Title, Author: in.Author}, nil
}

func (m *mockPostUsecase) Update(ctx context.Context, actorID, postID string, in usecase.UpdateInput) (*entity.Post, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actorID, postID, in)
	}
	return nil, usecase.ErrPostNotFound
}

func (m *mockPostUsecase) Delete(ctx context.Context, actorID, postID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actorID, postID)
	}
	return nil
}

func (m *mockPostUsecase) Get(ctx context.Context, id string) (*entity.Post, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, usecase.ErrPostNotFound
}

func (m *mockPostUsecase) List(ctx context.Context) ([]*entity.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockPostUsecase) ByAuthor(ctx context.Context, username string) ([]*entity.Post, error) {
	if m.ByAuthorFunc != nil {
		return m.ByAuthorFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockPostUsecase) ByCategory(ctx context.Context, category string) ([]*entity.Post, error) {
	if m.ByCategoryFunc != nil {
		return m.ByCategoryFunc(ctx, category)
	}
	return nil, nil
}

// fakeSession はテスト用にセッションミドルウェアの出力を注入します。
func fakeSession(userID, rotated string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(token.ContextUserID, userID)
		c.Set(token.ContextToken, rotated)
		c.Next()
	}
}

func newPostRouter(h *PostHandler) *gin.Engine {
	router := gin.New()
	router.Use(fakeSession("user-1", "rotated-token"))
	router.POST("/posts/", h.Create)
	router.PATCH("/posts/:postID", h.Update)
	router.DELETE("/posts/:postID", h.Delete)
	router.GET("/posts/", h.List)
	router.GET("/posts/:postID", h.Get)
	router.GET("/posts/author/:username", h.ByAuthor)
	router.GET("/posts/category/:category", h.ByCategory)
	return router
}

func TestPostHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockFunc       func(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error)
		expectedStatus int
	}{
		{
			name: "success: post created",
			requestBody: gin.H{
				"title":        "Ranked grind",
				"author":       "gamer42",
				"textArea":     "Looking for a duo partner",
				"gameCategory": "fps",
			},
			mockFunc: func(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error) {
				if actorID != "user-1" {
					t.Errorf("unexpected actor: %s", actorID)
				}
				if in.Body != "Looking for a duo partner" {
					t.Errorf("textArea must map to the post body, got: %s", in.Body)
				}
				return &entity.Post{ID: "post-1", Title: in.Title, Author: in.Author, Body: in.Body}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing title",
			requestBody:    gin.H{"author": "gamer42", "textArea": "body", "gameCategory": "fps"},
			mockFunc:       nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: author mismatch",
			requestBody: gin.H{
				"title":        "Spoofed",
				"author":       "someone-else",
				"textArea":     "body",
				"gameCategory": "fps",
			},
			mockFunc: func(ctx context.Context, actorID string, in usecase.CreateInput) (*entity.Post, error) {
				return nil, usecase.ErrNotAuthor
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newPostRouter(NewPostHandler(&mockPostUsecase{CreateFunc: tt.mockFunc}))

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/posts/", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPostHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: partial edit", func(t *testing.T) {
		router := newPostRouter(NewPostHandler(&mockPostUsecase{
			UpdateFunc: func(ctx context.Context, actorID, postID string, in usecase.UpdateInput) (*entity.Post, error) {
				assert.Equal(t, "post-1", postID)
				assert.Equal(t, "New title", in.Title)
				assert.Empty(t, in.Body, "omitted fields stay empty")
				return &entity.Post{ID: postID, Title: in.Title, Author: "gamer42"}, nil
			},
		}))

		body, _ := json.Marshal(gin.H{"title": "New title"})
		req, _ := http.NewRequest(http.MethodPatch, "/posts/post-1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var responseBody gin.H
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
		assert.Equal(t, "rotated-token", responseBody["jwt"], "rotated token must be returned")
	})

	t.Run("failure: non-author", func(t *testing.T) {
		router := newPostRouter(NewPostHandler(&mockPostUsecase{
			UpdateFunc: func(ctx context.Context, actorID, postID string, in usecase.UpdateInput) (*entity.Post, error) {
				return nil, usecase.ErrNotAuthor
			},
		}))

		body, _ := json.Marshal(gin.H{"title": "Hijack"})
		req, _ := http.NewRequest(http.MethodPatch, "/posts/post-1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("failure: unknown post", func(t *testing.T) {
		router := newPostRouter(NewPostHandler(&mockPostUsecase{}))

		body, _ := json.Marshal(gin.H{"title": "x"})
		req, _ := http.NewRequest(http.MethodPatch, "/posts/missing", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		deleted := false
		router := newPostRouter(NewPostHandler(&mockPostUsecase{
			DeleteFunc: func(ctx context.Context, actorID, postID string) error {
				deleted = true
				assert.Equal(t, "user-1", actorID)
				assert.Equal(t, "post-1", postID)
				return nil
			},
		}))

		req, _ := http.NewRequest(http.MethodDelete, "/posts/post-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, deleted, "usecase Delete was not called")
	})

	t.Run("failure: non-author", func(t *testing.T) {
		router := newPostRouter(NewPostHandler(&mockPostUsecase{
			DeleteFunc: func(ctx context.Context, actorID, postID string) error {
				return usecase.ErrNotAuthor
			},
		}))

		req, _ := http.NewRequest(http.MethodDelete, "/posts/post-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPostHandler_Feeds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	posts := []*entity.Post{
		{ID: "post-1", Title: "first", Author: "gamer42", GameCategory: "fps"},
		{ID: "post-2", Title: "second", Author: "rival", GameCategory: "moba"},
	}

	router := newPostRouter(NewPostHandler(&mockPostUsecase{
		ListFunc: func(ctx context.Context) ([]*entity.Post, error) {
			return posts, nil
		},
		ByAuthorFunc: func(ctx context.Context, username string) ([]*entity.Post, error) {
			assert.Equal(t, "gamer42", username)
			return posts[:1], nil
		},
		ByCategoryFunc: func(ctx context.Context, category string) ([]*entity.Post, error) {
			assert.Equal(t, "moba", category)
			return posts[1:], nil
		},
		GetFunc: func(ctx context.Context, id string) (*entity.Post, error) {
			if id == "post-1" {
				return posts[0], nil
			}
			return nil, usecase.ErrPostNotFound
		},
	}))

	t.Run("list all", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/posts/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"post-1"`)
		assert.Contains(t, w.Body.String(), `"post-2"`)
	})

	t.Run("by author", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/posts/author/gamer42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"post-1"`)
		assert.NotContains(t, w.Body.String(), `"post-2"`)
	})

	t.Run("by category", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/posts/category/moba", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"post-2"`)
	})

	t.Run("get single", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/posts/post-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"first"`)
	})

	t.Run("get unknown", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/posts/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("feed error is a 500", func(t *testing.T) {
		failing := newPostRouter(NewPostHandler(&mockPostUsecase{
			ListFunc: func(ctx context.Context) ([]*entity.Post, error) {
				return nil, errors.New("db down")
			},
		}))

		req, _ := http.NewRequest(http.MethodGet, "/posts/", nil)
		w := httptest.NewRecorder()
		failing.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
