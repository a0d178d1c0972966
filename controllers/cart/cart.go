package cartControllers

import (
	"errors"
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/MUHULILAMRI/Done-Fast/contact"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/session"
	"github.com/MUHULILAMRI/Done-Fast/whatsapp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgAddFailed    = "Gagal menambahkan layanan ke keranjang."
	msgUpdateFailed = "Gagal memperbarui keranjang."
	msgEmptyCart    = "Keranjang Anda kosong."
)

// Handler serves the visitor's cart. Users is only needed for the profile
// capture mode.
type Handler struct {
	Cart           *cart.Adapter
	Catalog        catalog.Provider
	Users          *auth.Users
	CaptureMode    string
	WhatsAppNumber string
}

type AddItemInput struct {
	ServiceSlug   string `json:"service_slug" binding:"required"`
	PackageName   string `json:"package_name"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type ContactInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) owner(c *gin.Context) cart.Owner {
	return cart.Owner{UserID: auth.UserID(c), Device: session.FromContext(c)}
}

func (h *Handler) container(c *gin.Context) *cart.Container {
	cc := cart.NewContainer(h.Cart, h.owner(c))
	cc.Load(c.Request.Context())
	return cc
}

func (h *Handler) respond(c *gin.Context, status int, s cart.State) {
	c.JSON(status, gin.H{
		"items":           s.Items,
		"count":           s.Count(),
		"total":           s.Total(),
		"total_formatted": whatsapp.FormatRupiah(s.Total()),
		"is_open":         s.IsOpen,
		"is_loading":      s.IsLoading,
		"degraded":        h.Cart.Degraded(),
	})
}

func contains(s cart.State, id string) bool {
	for _, it := range s.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	h.respond(c, http.StatusOK, h.container(c).State())
}

// profileContact returns the signed-in user's saved contact details when
// the profile capture mode lets them skip the prompt.
func (h *Handler) profileContact(c *gin.Context) (name, phone string, ok bool) {
	if h.CaptureMode != config.CaptureProfile || h.Users == nil {
		return "", "", false
	}
	userID := auth.UserID(c)
	if userID == "" {
		return "", "", false
	}
	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if err != nil || user.Name == "" || !contact.ValidPhone(user.Phone) {
		return "", "", false
	}
	return user.Name, user.Phone, true
}

// POST /cart/items
//
// The item is added straight away when contact details come with the
// request or from the profile. Otherwise it is parked on the device and the
// client is asked for a name and WhatsApp number (202).
func (h *Handler) AddItem(c *gin.Context) {
	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	svc, err := h.Catalog.Get(c.Request.Context(), input.ServiceSlug)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to load service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service"})
		return
	}

	var pkg catalog.Package
	if input.PackageName == "" {
		pkg = catalog.Packages(svc)[0]
	} else {
		var ok bool
		if pkg, ok = catalog.Resolve(svc, input.PackageName); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown package for this service"})
			return
		}
	}
	item := catalog.CartItem(svc, pkg)

	name, phone, known := input.CustomerName, input.CustomerPhone, input.CustomerName != "" || input.CustomerPhone != ""
	if !known {
		name, phone, known = h.profileContact(c)
	}
	if !known {
		if err := contact.Begin(session.FromContext(c), item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgAddFailed})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"contact_required": true,
			"pending":          item,
		})
		return
	}

	item, err = contact.Complete(item, name, phone)
	if err != nil {
		validationFailed(c, err)
		return
	}
	h.add(c, item)
}

func (h *Handler) add(c *gin.Context, item models.CartItem) {
	cc := h.container(c)
	if !cc.AddToCart(c.Request.Context(), item) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgAddFailed})
		return
	}
	h.respond(c, http.StatusCreated, cc.State())
}

func validationFailed(c *gin.Context, err error) {
	var verr *contact.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// GET /cart/pending
func (h *Handler) GetPending(c *gin.Context) {
	item, ok := contact.Pending(session.FromContext(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": contact.MsgNoPending})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": item})
}

// POST /cart/pending/confirm
func (h *Handler) ConfirmPending(c *gin.Context) {
	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	item, err := contact.Submit(session.FromContext(c), input.Name, input.Phone)
	if err != nil {
		validationFailed(c, err)
		return
	}
	h.add(c, item)
}

// DELETE /cart/pending
func (h *Handler) CancelPending(c *gin.Context) {
	contact.Cancel(session.FromContext(c))
	c.Status(http.StatusNoContent)
}

// PATCH /cart/items/:id
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var input QuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	id := c.Param("id")
	cc := h.container(c)
	if !contains(cc.State(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	if !cc.UpdateQuantity(c.Request.Context(), id, *input.Quantity) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpdateFailed})
		return
	}
	h.respond(c, http.StatusOK, cc.State())
}

// DELETE /cart/items/:id
func (h *Handler) RemoveItem(c *gin.Context) {
	id := c.Param("id")
	cc := h.container(c)
	if !contains(cc.State(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	if !cc.RemoveFromCart(c.Request.Context(), id) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpdateFailed})
		return
	}
	h.respond(c, http.StatusOK, cc.State())
}

// DELETE /cart
func (h *Handler) ClearCart(c *gin.Context) {
	cc := h.container(c)
	if !cc.ClearCart(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpdateFailed})
		return
	}
	h.respond(c, http.StatusOK, cc.State())
}

// GET /cart/checkout returns the WhatsApp link that hands the cart to an
// admin. The cart itself is left as is.
func (h *Handler) Checkout(c *gin.Context) {
	s := h.container(c).State()
	if len(s.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmptyCart})
		return
	}
	text := whatsapp.CartMessage(s.Items)
	c.JSON(http.StatusOK, gin.H{
		"url":     whatsapp.Link(h.WhatsAppNumber, text),
		"message": text,
		"total":   s.Total(),
	})
}
