package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sushil23harsana/Task-management/internal/api/handlers"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
	"github.com/sushil23harsana/Task-management/pkg/security/auth"
)

type UserRoutes struct {
	handler   *handlers.UserHandler
	jwtSecret string
	limiter   auth.RateLimiter
}

func NewUserRoutes(handler *handlers.UserHandler, jwtSecret string, limiter auth.RateLimiter) *UserRoutes {
	return &UserRoutes{handler: handler, jwtSecret: jwtSecret, limiter: limiter}
}

// RegisterRoutes registers account routes. Login and registration are
// rate limited; the rest require a valid token.
func (r *UserRoutes) RegisterRoutes(router *gin.Engine) {
	users := router.Group("/api/users")

	public := users.Group("")
	if r.limiter != nil {
		public.Use(middleware.RateLimitMiddleware(r.limiter))
	}
	public.POST("/register", r.handler.Register)
	public.POST("/login", r.handler.Login)

	protected := users.Group("")
	protected.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	protected.GET("/me", r.handler.Me)
}
