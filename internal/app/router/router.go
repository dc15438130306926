package router

import (
	"github.com/gin-gonic/gin"

	authhandler "account_backend/internal/feature/auth/transport/handler"
	platformhandler "account_backend/internal/platform/http/handler"
	"account_backend/internal/platform/http/middleware"
	jwtmw "account_backend/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, health *platformhandler.HealthHandler, tokens jwtmw.Verifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger("/healthz"))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	users := r.Group("/users")
	{
		// 新規ユーザー登録（有効化コードを送信）
		users.POST("/", authHandler.Register)
		// 有効化コードの確認
		users.POST("/activate", authHandler.Activate)
		// ログイン（JWT 発行）
		users.POST("/login", authHandler.Login)

		// 認証必須のルート
		// → リクエストヘッダーに Bearer トークンが必要になる
		users.GET("/me", jwtmw.AuthRequired(tokens), authHandler.Me)
	}

	return r
}
