package usecase

import (
	"context"

	userentity "social_backend/internal/feature/user/domain/entity"

	"social_backend/internal/feature/post/domain/entity"
)

// PostRepository abstracts the persistence layer for post entities.
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	FindAll(ctx context.Context) ([]*entity.Post, error)
	FindByAuthor(ctx context.Context, username string) ([]*entity.Post, error)
	FindByCategory(ctx context.Context, category string) ([]*entity.Post, error)
	Save(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
}

// UserFinder resolves the authenticated user for author checks.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*userentity.User, error)
}

// CreateInput carries the fields of a new post.
type CreateInput struct {
	Title        string
	Author       string
	Image        string
	Body         string
	GameCategory string
}

// UpdateInput carries a partial post update. Empty fields keep the
// stored values; the author is immutable.
type UpdateInput struct {
	Title        string
	Image        string
	Body         string
	GameCategory string
}

// postUsecase implements the post business logic: CRUD plus the
// author-guard rule that only the posting user may modify a post.
type postUsecase struct {
	posts PostRepository
	users UserFinder
}

// NewPostUsecase creates a new postUsecase instance.
func NewPostUsecase(posts PostRepository, users UserFinder) *postUsecase {
	return &postUsecase{posts: posts, users: users}
}

// Create publishes a new post. The declared author must be the
// authenticated user's username.
func (u *postUsecase) Create(ctx context.Context, actorID string, in CreateInput) (*entity.Post, error) {
	actor, err := u.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Username != in.Author {
		return nil, ErrNotAuthor
	}

	post := &entity.Post{
		Title:        in.Title,
		Author:       in.Author,
		Image:        in.Image,
		Body:         in.Body,
		GameCategory: in.GameCategory,
	}
	if err := u.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies a partial update to a post owned by the actor.
func (u *postUsecase) Update(ctx context.Context, actorID, postID string, in UpdateInput) (*entity.Post, error) {
	post, err := u.authoredPost(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Image != "" {
		post.Image = in.Image
	}
	if in.Body != "" {
		post.Body = in.Body
	}
	if in.GameCategory != "" {
		post.GameCategory = in.GameCategory
	}

	if err := u.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post owned by the actor.
func (u *postUsecase) Delete(ctx context.Context, actorID, postID string) error {
	if _, err := u.authoredPost(ctx, actorID, postID); err != nil {
		return err
	}
	return u.posts.Delete(ctx, postID)
}

// authoredPost loads a post and verifies the actor is its author.
func (u *postUsecase) authoredPost(ctx context.Context, actorID, postID string) (*entity.Post, error) {
	actor, err := u.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	post, err := u.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author != actor.Username {
		return nil, ErrNotAuthor
	}
	return post, nil
}

// Get retrieves a post by ID.
func (u *postUsecase) Get(ctx context.Context, id string) (*entity.Post, error) {
	return u.posts.FindByID(ctx, id)
}

// List retrieves all posts.
func (u *postUsecase) List(ctx context.Context) ([]*entity.Post, error) {
	return u.posts.FindAll(ctx)
}

// ByAuthor retrieves all posts by the given username.
func (u *postUsecase) ByAuthor(ctx context.Context, username string) ([]*entity.Post, error) {
	return u.posts.FindByAuthor(ctx, username)
}

// ByCategory retrieves all posts in the given game category.
func (u *postUsecase) ByCategory(ctx context.Context, category string) ([]*entity.Post, error) {
	return u.posts.FindByCategory(ctx, category)
}
