package main

import (
	"log"
	"log/slog"
	"os"

	redisv9 "github.com/redis/go-redis/v9"

	"social_backend/internal/app/router"
	"social_backend/internal/feature/chat"
	chathandler "social_backend/internal/feature/chat/transport/handler"
	friendhandler "social_backend/internal/feature/friend/transport/handler"
	friendusecase "social_backend/internal/feature/friend/usecase"
	postadapters "social_backend/internal/feature/post/adapters"
	posthandler "social_backend/internal/feature/post/transport/handler"
	postusecase "social_backend/internal/feature/post/usecase"
	useradapters "social_backend/internal/feature/user/adapters"
	userhandler "social_backend/internal/feature/user/transport/handler"
	userusecase "social_backend/internal/feature/user/usecase"
	"social_backend/internal/platform/cache"
	"social_backend/internal/platform/crypt"
	infradb "social_backend/internal/platform/db"
	infraredis "social_backend/internal/platform/redis"
	"social_backend/internal/platform/token"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache and chat.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 暗号設定は起動時に一度だけ導出し、以後は不変
	cipherCfg, err := crypt.NewConfig(os.Getenv("ENC_KEY"), os.Getenv("ENC_IV"))
	if err != nil {
		log.Fatalf("failed to derive cipher config: %v", err)
	}
	cipher, err := crypt.New(cipherCfg)
	if err != nil {
		log.Fatalf("failed to initialize cipher: %v", err)
	}

	// Repository
	userRepo := useradapters.NewUserGorm(db)
	postRepo := postadapters.NewPostGorm(db)

	// Redisキャッシュでラップ
	cachedPostRepo := cache.NewCachingPostRepository(rdb, 0, postRepo, "posts")

	// Token issuer（セッショントークンの発行・検証・更新）
	issuer := token.NewIssuer(os.Getenv("JWT_SECRET"), token.DefaultTTL, cipher, userRepo)

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo, issuer)
	friendUC := friendusecase.NewFriendUsecase(userRepo)
	postUC := postusecase.NewPostUsecase(cachedPostRepo, userRepo)

	// Chat relay
	relay := chat.NewRelay(rdb, "chat")

	// Handler
	userH := userhandler.NewUserHandler(userUC)
	friendH := friendhandler.NewFriendHandler(friendUC)
	postH := posthandler.NewPostHandler(postUC)
	chatH := chathandler.NewChatHandler(relay, userRepo)

	// ルータ生成
	r := router.NewRouter(issuer, userH, friendH, postH, chatH, db)

	// シークレットチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	slog.Info("social gaming API starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
