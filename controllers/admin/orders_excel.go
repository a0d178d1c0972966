package adminController

import (
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var orderColumns = []string{
	"ID", "Tanggal", "Nama", "No. WA", "Layanan", "Paket",
	"Harga", "Jumlah", "Total", "Status",
}

func ordersWorkbook(items []models.CartItem) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range orderColumns {
		header.AddCell().SetValue(h)
	}
	for _, it := range items {
		row := sheet.AddRow()
		row.AddCell().SetValue(it.ID)
		row.AddCell().SetValue(it.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(it.CustomerName)
		row.AddCell().SetValue(it.CustomerPhone)
		row.AddCell().SetValue(it.ServiceTitle)
		row.AddCell().SetValue(it.PackageName)
		row.AddCell().SetInt64(it.Price)
		row.AddCell().SetInt(it.Quantity)
		row.AddCell().SetInt64(it.Subtotal())
		row.AddCell().SetValue(models.OrderStatus(it.Status).Label())
	}
	return file, nil
}

// GET /admin/orders/export?status=&q=
//
// Exports every order matching the list filters, not just one page.
func (h *Handler) ExportOrders(c *gin.Context) {
	items, err := h.Orders.AllOrders(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	file, err := ordersWorkbook(filterOrders(items, c.Query("status"), c.Query("q")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	attachment(c, "orders.xlsx")
	if err := file.Write(c.Writer); err != nil {
		logger.FromGin(c).Error("failed to write Excel file", zap.Error(err))
	}
}
