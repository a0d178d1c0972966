package routes

import (
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/MUHULILAMRI/Done-Fast/feedback"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/MUHULILAMRI/Done-Fast/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Catalog   catalog.Provider
	Services  *catalog.Store
	Cart      *cart.Adapter
	Orders    *cart.GormRepository
	Feedback  *feedback.Store
	Users     *auth.Users
	Tokens    *auth.TokenService
	Blacklist auth.TokenBlacklist
	Verifier  auth.Verifier
	Hub       *realtime.Hub
	Sessions  sessions.Store
}

func (d *Deps) device() gin.HandlerFunc {
	return session.Middleware(d.Sessions, d.Config.Session.Name, d.Log)
}

func (d *Deps) optionalAuth() gin.HandlerFunc {
	return middleware.OptionalAuth(d.Tokens, d.Blacklist)
}

func (d *Deps) requireAuth() gin.HandlerFunc {
	return middleware.ValidateToken(d.Tokens, d.Blacklist)
}

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cart_degraded": d.Cart.Degraded()})
	})

	SetupAuthRoutes(r, d)
	SetupStorefrontRoutes(r, d)
	SetupUserRoutes(r, d)
	SetupAdminRoutes(r, d)
}
