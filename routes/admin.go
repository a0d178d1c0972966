package routes

import (
	adminController "github.com/MUHULILAMRI/Done-Fast/controllers/admin"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an admin
// token or the API key.
func SetupAdminRoutes(r *gin.Engine, d *Deps) {
	h := &adminController.Handler{
		Orders:   d.Orders,
		Services: d.Services,
		Feedback: d.Feedback,
		Hub:      d.Hub,
	}

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Tokens, d.Blacklist, d.Config.Admin.APIKey))
	{
		adminGroup.GET("/dashboard", h.GetDashboard)
		adminGroup.GET("/dashboard/live", h.LiveDashboard)

		orders := adminGroup.Group("/orders")
		{
			orders.GET("", h.ListOrders)
			orders.GET("/export", h.ExportOrders)
			orders.PATCH("/:id/status", h.UpdateOrderStatus)
			orders.DELETE("/:id", h.DeleteOrder)
			orders.GET("/:id/template", h.GetOrderTemplate)
			orders.GET("/:id/contact", h.GetCustomerLink)
			orders.GET("/:id/invoice", h.GetInvoice)
		}
		adminGroup.GET("/order-statuses", adminController.ListOrderStatuses)

		services := adminGroup.Group("/services")
		{
			services.GET("", h.ListServices)
			services.POST("", h.CreateService)
			services.GET("/options", adminController.ServiceFormOptions)
			services.GET("/export", h.ExportServices)
			services.POST("/import", h.ImportServices)
			services.GET("/:id/form", h.GetServiceForm)
			services.PUT("/:id", h.UpdateService)
			services.DELETE("/:id", h.DeleteService)
		}

		fb := adminGroup.Group("/feedback")
		{
			fb.GET("", h.ListFeedback)
			fb.PATCH("/:id/read", h.SetFeedbackRead)
			fb.DELETE("/:id", h.DeleteFeedback)
		}
	}
}
