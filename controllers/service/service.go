package serviceControllers

import (
	"errors"
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/whatsapp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /services?category=
func GetAllServices(provider catalog.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := provider.List(c.Request.Context())
		if err != nil {
			logger.FromGin(c).Error("failed to list services", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
			return
		}

		list = catalog.Filter(list, c.Query("category"))
		entries := make([]catalog.Entry, 0, len(list))
		for _, s := range list {
			entries = append(entries, catalog.Describe(s))
		}
		c.JSON(http.StatusOK, entries)
	}
}

// GET /services/:slug
func GetService(provider catalog.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, err := provider.Get(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		if err != nil {
			logger.FromGin(c).Error("failed to load service", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
			return
		}
		c.JSON(http.StatusOK, catalog.Describe(svc))
	}
}

// GET /categories
func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories()})
}

// GET /services/:slug/order-link?package=
//
// Links straight to a chat about one package, bypassing the cart.
func GetOrderLink(provider catalog.Provider, number string) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, err := provider.Get(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
			return
		}

		text := whatsapp.ServiceInterestMessage(svc.Title)
		if name := c.Query("package"); name != "" {
			pkg, ok := catalog.Resolve(svc, name)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown package for this service"})
				return
			}
			text = whatsapp.OrderNowMessage(svc.Title, pkg.Name)
		}

		c.JSON(http.StatusOK, gin.H{"url": whatsapp.Link(number, text), "message": text})
	}
}

// GET /consult
func GetConsultLink(number string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"url":     whatsapp.Link(number, whatsapp.ConsultMessage),
			"message": whatsapp.ConsultMessage,
		})
	}
}
