package routes

import (
	authControllers "github.com/MUHULILAMRI/Done-Fast/controllers/auth"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. Sign-in needs the
// device so the guest cart can follow the visitor into the account.
func SetupAuthRoutes(r *gin.Engine, d *Deps) {
	h := &authControllers.Handler{
		Users:      d.Users,
		Tokens:     d.Tokens,
		Blacklist:  d.Blacklist,
		Verifier:   d.Verifier,
		Cart:       d.Cart,
		AdminEmail: d.Config.Admin.Email,
	}

	limiter := middleware.NewRateLimiter(d.Config.HTTP.RateLimitRequests, d.Config.HTTP.RateLimitWindow)

	authGroup := r.Group("/auth")
	authGroup.Use(d.device())
	{
		authGroup.POST("/register", middleware.RateLimit(limiter), h.Register)
		authGroup.POST("/login", middleware.RateLimit(limiter), h.Login)
		authGroup.POST("/google", middleware.RateLimit(limiter), h.Google)
		authGroup.GET("/me", d.requireAuth(), h.Me)
		authGroup.POST("/logout", d.requireAuth(), h.Logout)
	}
}
