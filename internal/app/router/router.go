package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authhandler "task_backend/internal/feature/auth/transport/handler"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	"task_backend/internal/platform/http/handler"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/ratelimiter"
)

// throttle rejects requests with 429 once the limiter window is exhausted.
func throttle(limiter ratelimiter.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func NewRouter(authHandler *authhandler.AuthHandler, tasks *taskhandler.TaskHandler,
	loginLimiter ratelimiter.RateLimiterInterface) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/register", authHandler.Register)
	// ログイン（トークンペア発行）
	r.POST("/token", throttle(loginLimiter), authHandler.Login)
	// リフレッシュトークンのローテーション
	r.POST("/token/refresh", authHandler.Refresh)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/tasks", tasks.List)
		auth.POST("/tasks", tasks.Create)
		auth.GET("/tasks/:id", tasks.Retrieve)
		auth.PUT("/tasks/:id", tasks.Update)
		auth.PATCH("/tasks/:id", tasks.Update)
		auth.DELETE("/tasks/:id", tasks.Delete)
		auth.PATCH("/tasks/:id/mark_complete", tasks.MarkComplete)
	}

	return r
}
