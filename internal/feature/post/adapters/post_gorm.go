// Package adapters はpostフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"social_backend/internal/feature/post/domain/entity"
	"social_backend/internal/feature/post/usecase"
)

// postGorm はPostRepositoryインターフェースのGORM実装です。
type postGorm struct {
	db *gorm.DB
}

// postGormがPostRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PostRepository = (*postGorm)(nil)

// NewPostGorm は指定されたgorm.DB接続でpostGormの新しいインスタンスを生成します。
func NewPostGorm(db *gorm.DB) *postGorm {
	return &postGorm{db: db}
}

// Create は投稿をデータベースに追加します。IDが未設定の場合はUUIDを採番します。
func (r *postGorm) Create(ctx context.Context, p *entity.Post) error {
	if p == nil {
		return errors.New("post must not be nil")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID はIDで投稿を取得します。
// 投稿が存在しない場合、usecase.ErrPostNotFoundを返します。
func (r *postGorm) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	var p entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll は全投稿を新しい順に取得します。
func (r *postGorm) FindAll(ctx context.Context) ([]*entity.Post, error) {
	var posts []*entity.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByAuthor は指定されたユーザー名の投稿を新しい順に取得します。
func (r *postGorm) FindByAuthor(ctx context.Context, username string) ([]*entity.Post, error) {
	var posts []*entity.Post
	if err := r.db.WithContext(ctx).Where("author = ?", username).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByCategory は指定されたゲームカテゴリの投稿を新しい順に取得します。
func (r *postGorm) FindByCategory(ctx context.Context, category string) ([]*entity.Post, error) {
	var posts []*entity.Post
	if err := r.db.WithContext(ctx).Where("game_category = ?", category).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save は既存投稿の変更を永続化します。
func (r *postGorm) Save(ctx context.Context, p *entity.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete は指定されたIDの投稿を削除します。
func (r *postGorm) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrPostNotFound
	}
	return nil
}
