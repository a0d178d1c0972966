package adminController

import (
	"strconv"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/feedback"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/gin-gonic/gin"
)

// Handler serves everything under /admin. Every route is behind
// middleware.RequireAdmin.
type Handler struct {
	Orders   *cart.GormRepository
	Services *catalog.Store
	Feedback *feedback.Store
	Hub      *realtime.Hub
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
}
