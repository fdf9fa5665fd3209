package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chathandler "social_backend/internal/feature/chat/transport/handler"
	friendhandler "social_backend/internal/feature/friend/transport/handler"
	posthandler "social_backend/internal/feature/post/transport/handler"
	userhandler "social_backend/internal/feature/user/transport/handler"
	"social_backend/internal/platform/http/handler"
	"social_backend/internal/platform/token"
)

// NewRouter wires every route of the API. Authenticated groups sit
// behind the session middleware, which verifies and rotates the jwt
// header; their handlers return the rotated token in the response body.
func NewRouter(issuer *token.Issuer, userH *userhandler.UserHandler,
	friendH *friendhandler.FriendHandler, postH *posthandler.PostHandler,
	chatH *chathandler.ChatHandler, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.GET("/databaseHealth", handler.DatabaseHealth(db))
	// 新規ユーザー登録
	r.POST("/users/register", userH.Register)
	// ログイン（セッショントークン発行）
	r.POST("/users/login", userH.Login)
	// トークン更新
	r.POST("/users/refresh-token", userH.Refresh)
	// 公開プロフィール
	r.GET("/users/:userID", userH.GetByID)

	// 認証必須のルート
	// token.SessionRequired() ミドルウェアを適用
	// → リクエストヘッダーに jwt が必要になる
	auth := r.Group("/")
	auth.Use(token.SessionRequired(issuer))
	{
		auth.GET("/users/", userH.GetSelf)
		auth.GET("/users/all", userH.List)
		auth.PUT("/users/", userH.Update)
		auth.PATCH("/users/", userH.PartialUpdate)
		auth.DELETE("/users/", userH.Delete)

		auth.POST("/friends/add/:username", friendH.Request)
		auth.PUT("/friends/accept/:username", friendH.Accept)
		auth.DELETE("/friends/reject/:username", friendH.Reject)
		auth.DELETE("/friends/:username", friendH.Unfriend)
		auth.GET("/friends/", friendH.Friends)
		auth.GET("/friends/requested", friendH.Requested)
		auth.GET("/friends/received", friendH.Received)

		auth.POST("/follows/:username", userH.Follow)
		auth.DELETE("/follows/:username", userH.Unfollow)
		auth.GET("/follows/", userH.Follows)

		auth.POST("/posts/", postH.Create)
		auth.PATCH("/posts/:postID", postH.Update)
		auth.DELETE("/posts/:postID", postH.Delete)
		auth.GET("/posts/", postH.List)
		auth.GET("/posts/:postID", postH.Get)
		auth.GET("/posts/author/:username", postH.ByAuthor)
		auth.GET("/posts/category/:category", postH.ByCategory)

		auth.POST("/chat/:username/messages", chatH.Send)
		auth.GET("/chat/:username/stream", chatH.Stream)
	}

	return r
}
