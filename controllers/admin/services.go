package adminController

import (
	"errors"
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/listing"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func serviceSearchFields(s models.Service) []string {
	return []string{s.ID, s.Title, s.Description}
}

// GET /admin/services?category=&q=&page=
func (h *Handler) ListServices(c *gin.Context) {
	list, err := h.Services.All(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}
	list = listing.Search(catalog.Filter(list, c.Query("category")), c.Query("q"), serviceSearchFields)
	c.JSON(http.StatusOK, listing.Paginate(list, pageParam(c)))
}

// GET /admin/services/options lists what the service form may pick from.
func ServiceFormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.ServiceCategories,
		"icons":      catalog.IconNames(),
		"empty_form": catalog.NewForm(),
	})
}

// GET /admin/services/:id/form
func (h *Handler) GetServiceForm(c *gin.Context) {
	svc, err := h.Services.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}
	c.JSON(http.StatusOK, catalog.EncodeForm(svc))
}

// bindForm reads and decodes a service form. It answers the request itself
// when the form is rejected.
func bindForm(c *gin.Context) (models.Service, bool) {
	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return models.Service{}, false
	}
	svc, err := catalog.DecodeForm(form)
	var ferr *catalog.FormError
	if errors.As(err, &ferr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ferr.Message, "field": ferr.Field})
		return models.Service{}, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Service{}, false
	}
	return svc, true
}

// POST /admin/services
func (h *Handler) CreateService(c *gin.Context) {
	svc, ok := bindForm(c)
	if !ok {
		return
	}
	created, err := h.Services.Create(c.Request.Context(), svc)
	if errors.Is(err, catalog.ErrExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "A service with this id already exists", "field": "id"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to create service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /admin/services/:id
func (h *Handler) UpdateService(c *gin.Context) {
	svc, ok := bindForm(c)
	if !ok {
		return
	}
	updated, err := h.Services.Update(c.Request.Context(), c.Param("id"), svc)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to update service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /admin/services/:id
func (h *Handler) DeleteService(c *gin.Context) {
	err := h.Services.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to delete service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
