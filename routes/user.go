package routes

import (
	userControllers "github.com/MUHULILAMRI/Done-Fast/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/user" endpoints. Requires a token.
func SetupUserRoutes(r *gin.Engine, d *Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(d.requireAuth())
	{
		userGroup.GET("", userControllers.GetUser(d.Users))
		userGroup.PUT("", userControllers.UpdateUser(d.Users))
	}
}
