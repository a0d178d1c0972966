package routes

import (
	cartControllers "github.com/MUHULILAMRI/Done-Fast/controllers/cart"
	feedbackControllers "github.com/MUHULILAMRI/Done-Fast/controllers/feedback"
	serviceControllers "github.com/MUHULILAMRI/Done-Fast/controllers/service"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/gin-gonic/gin"
)

// SetupStorefrontRoutes registers the public catalog, the visitor cart and
// the feedback form. Carts work signed in or not.
func SetupStorefrontRoutes(r *gin.Engine, d *Deps) {
	number := d.Config.WhatsApp.Number

	r.GET("/categories", serviceControllers.GetCategories)
	r.GET("/consult", serviceControllers.GetConsultLink(number))

	services := r.Group("/services")
	{
		services.GET("", serviceControllers.GetAllServices(d.Catalog))
		services.GET("/:slug", serviceControllers.GetService(d.Catalog))
		services.GET("/:slug/order-link", serviceControllers.GetOrderLink(d.Catalog, number))
	}

	h := &cartControllers.Handler{
		Cart:           d.Cart,
		Catalog:        d.Catalog,
		Users:          d.Users,
		CaptureMode:    d.Config.Cart.CaptureMode,
		WhatsAppNumber: number,
	}
	cartGroup := r.Group("/cart")
	cartGroup.Use(d.device(), d.optionalAuth())
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.POST("/items", h.AddItem)
		cartGroup.PATCH("/items/:id", h.UpdateQuantity)
		cartGroup.DELETE("/items/:id", h.RemoveItem)
		cartGroup.GET("/pending", h.GetPending)
		cartGroup.POST("/pending/confirm", h.ConfirmPending)
		cartGroup.DELETE("/pending", h.CancelPending)
		cartGroup.GET("/checkout", h.Checkout)
	}

	limiter := middleware.NewRateLimiter(d.Config.HTTP.RateLimitRequests, d.Config.HTTP.RateLimitWindow)
	r.POST("/feedback", middleware.RateLimit(limiter), feedbackControllers.SubmitFeedback(d.Feedback))
}
