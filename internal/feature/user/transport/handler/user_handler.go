// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/user/domain/entity"
	"social_backend/internal/feature/user/transport/http/dto"
	"social_backend/internal/feature/user/usecase"
	"social_backend/internal/platform/token"
)

// UserUsecase はユーザー管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	Register(ctx context.Context, email, password, username, name string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Refresh(ctx context.Context, raw string) (string, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id string, in usecase.UpdateInput) (*entity.User, string, error)
	PartialUpdate(ctx context.Context, id string, in usecase.PartialUpdateInput) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	Follow(ctx context.Context, userID, targetUsername string) error
	Unfollow(ctx context.Context, userID, targetUsername string) error
	Follows(ctx context.Context, userID string) (entity.IDList, error)
}

// UserHandler はユーザー管理操作のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// respondError はセンチネルエラーをHTTPステータスコードに対応付けます。
// 認証エラーは401、未検出は404、状態競合は409、その他は汎用500です。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, token.ErrTokenInvalid),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrStaleToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmailTaken), errors.Is(err, usecase.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("user operation failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール・ユーザー名重複時は409を返却
// - 成功時は201でユーザーを返却
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Username, req.Name)
	if err != nil {
		slog.Warn("registration failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		respondError(c, err)
		return
	}

	slog.Info("user registered", "username", user.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証成功時はセッショントークン付きで200を返却します。
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jwt, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、詳細を公開しない
		slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
		respondError(c, err)
		return
	}

	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"jwt": jwt})
}

// Refresh は既存トークンを検証し、有効期限を延長したトークンを返します。
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jwt, err := h.users.Refresh(c.Request.Context(), req.JWT)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jwt": jwt})
}

// GetByID はパスパラメータのIDでユーザーを取得します（認証不要）。
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// List は全ユーザーを返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "jwt": token.Rotated(c)})
}

// GetSelf はトークンの本人を取得します。
func (h *UserHandler) GetSelf(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), token.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "jwt": token.Rotated(c)})
}

// Update はプロフィール全体を更新し、新しいトークンを返します。
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, jwt, err := h.users.Update(c.Request.Context(), token.UserID(c), usecase.UpdateInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Name:     req.Name,
		About:    req.About,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// パスワードが変わったため、ローテーション済みトークンではなく
	// 新しいスナップショットのトークンを返します。
	c.JSON(http.StatusOK, gin.H{"user": user, "jwt": jwt})
}

// PartialUpdate はプロフィールの一部を更新します。
func (h *UserHandler) PartialUpdate(c *gin.Context) {
	var req dto.PartialUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.PartialUpdate(c.Request.Context(), token.UserID(c), usecase.PartialUpdateInput{
		Password: req.Password,
		Name:     req.Name,
		About:    req.About,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "jwt": token.Rotated(c)})
}

// Delete はトークンの本人を削除します。
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), token.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	slog.Info("user deleted", "user_id", token.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// Follow は対象ユーザーをフォローします。
func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.users.Follow(c.Request.Context(), token.UserID(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "followed successfully", "jwt": token.Rotated(c)})
}

// Unfollow はフォローを解除します。
func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.users.Unfollow(c.Request.Context(), token.UserID(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed successfully", "jwt": token.Rotated(c)})
}

// Follows はフォロー中のユーザーID一覧を返します。
func (h *UserHandler) Follows(c *gin.Context) {
	follows, err := h.users.Follows(c.Request.Context(), token.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if follows == nil {
		follows = entity.IDList{}
	}
	c.JSON(http.StatusOK, gin.H{"follows": follows, "jwt": token.Rotated(c)})
}
