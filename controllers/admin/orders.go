package adminController

import (
	"errors"
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/listing"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/whatsapp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderView is a cart row as the orders table shows it.
type OrderView struct {
	models.CartItem
	StatusLabel string `json:"status_label"`
	Total       int64  `json:"total"`
}

func viewOrder(it models.CartItem) OrderView {
	return OrderView{
		CartItem:    it,
		StatusLabel: models.OrderStatus(it.Status).Label(),
		Total:       it.Subtotal(),
	}
}

func orderSearchFields(it models.CartItem) []string {
	return []string{it.CustomerName, it.CustomerPhone, it.ServiceTitle, it.PackageName}
}

// filterOrders applies the status filter ("all" or an exact status) and the
// search box. Both must hold.
func filterOrders(items []models.CartItem, status, query string) []models.CartItem {
	if status != "" && status != "all" {
		items = listing.Where(items, func(it models.CartItem) bool { return it.Status == status })
	}
	return listing.Search(items, query, orderSearchFields)
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GET /admin/orders?status=&q=&page=
func (h *Handler) ListOrders(c *gin.Context) {
	items, err := h.Orders.AllOrders(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	page := listing.Paginate(filterOrders(items, c.Query("status"), c.Query("q")), pageParam(c))
	views := make([]OrderView, 0, len(page.Items))
	for _, it := range page.Items {
		views = append(views, viewOrder(it))
	}
	c.JSON(http.StatusOK, listing.Page[OrderView]{
		Items:      views,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// GET /admin/order-statuses
func ListOrderStatuses(c *gin.Context) {
	out := make([]gin.H, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		out = append(out, gin.H{"value": s, "label": s.Label()})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) findOrder(c *gin.Context) (models.CartItem, bool) {
	item, err := h.Orders.FindOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return item, false
	}
	if err != nil {
		logger.FromGin(c).Error("failed to load order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return item, false
	}
	return item, true
}

// PATCH /admin/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	status := models.OrderStatus(input.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	item, err := h.Orders.SetStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to update order status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	c.JSON(http.StatusOK, viewOrder(item))
}

// DELETE /admin/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	err := h.Orders.DeleteOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to delete order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// GET /admin/orders/:id/template
func (h *Handler) GetOrderTemplate(c *gin.Context) {
	item, ok := h.findOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": whatsapp.AdminTemplate(item)})
}

// GET /admin/orders/:id/contact links to a chat with the customer.
func (h *Handler) GetCustomerLink(c *gin.Context) {
	item, ok := h.findOrder(c)
	if !ok {
		return
	}
	if item.CustomerPhone == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Nomor WhatsApp pelanggan tidak tersedia."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": whatsapp.Link(item.CustomerPhone, "")})
}

type Invoice struct {
	InvoiceID     string `json:"invoice_id"`
	Date          string `json:"date"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	ServiceTitle  string `json:"service_title"`
	PackageName   string `json:"package_name"`
	Price         string `json:"price"`
	Quantity      int    `json:"quantity"`
	Total         string `json:"total"`
	Status        string `json:"status"`
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func invoiceFor(item models.CartItem) Invoice {
	short := item.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return Invoice{
		InvoiceID:     "#" + short,
		Date:          item.CreatedAt.Format("02/01/2006"),
		CustomerName:  orNA(item.CustomerName),
		CustomerPhone: orNA(item.CustomerPhone),
		ServiceTitle:  item.ServiceTitle,
		PackageName:   item.PackageName,
		Price:         whatsapp.FormatRupiah(item.Price),
		Quantity:      item.Quantity,
		Total:         whatsapp.FormatRupiah(item.Subtotal()),
		Status:        models.OrderStatus(item.Status).Label(),
	}
}

// GET /admin/orders/:id/invoice
func (h *Handler) GetInvoice(c *gin.Context) {
	item, ok := h.findOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, invoiceFor(item))
}
