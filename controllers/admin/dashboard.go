package adminController

import (
	"context"
	"net/http"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/dashboard"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ordersIn(ctx context.Context, rng dashboard.Range) ([]models.CartItem, error) {
	if since, ok := rng.Since(time.Now()); ok {
		return h.Orders.OrdersSince(ctx, since)
	}
	return h.Orders.AllOrders(ctx)
}

// GET /admin/dashboard?range=all|7d|30d|90d
func (h *Handler) GetDashboard(c *gin.Context) {
	rng, err := dashboard.ParseRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of all, 7d, 30d, 90d"})
		return
	}
	items, err := h.ordersIn(c.Request.Context(), rng)
	if err != nil {
		logger.FromGin(c).Error("failed to load dashboard orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range":   rng,
		"summary": dashboard.Summarize(items),
	})
}
