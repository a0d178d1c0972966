package adminController

import (
	"errors"
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/feedback"
	"github.com/MUHULILAMRI/Done-Fast/listing"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReadInput struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

// GET /admin/feedback?filter=all|read|unread&q=&page=
func (h *Handler) ListFeedback(c *gin.Context) {
	list, err := h.Feedback.All(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	filter := c.DefaultQuery("filter", feedback.FilterAll)
	list = listing.Where(list, func(fb models.Feedback) bool { return feedback.MatchesFilter(fb, filter) })
	list = listing.Search(list, c.Query("q"), feedback.SearchFields)
	c.JSON(http.StatusOK, listing.Paginate(list, pageParam(c)))
}

// PATCH /admin/feedback/:id/read
func (h *Handler) SetFeedbackRead(c *gin.Context) {
	var input ReadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	fb, err := h.Feedback.SetRead(c.Request.Context(), c.Param("id"), *input.IsRead)
	if errors.Is(err, feedback.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to update feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feedback"})
		return
	}
	c.JSON(http.StatusOK, fb)
}

// DELETE /admin/feedback/:id
func (h *Handler) DeleteFeedback(c *gin.Context) {
	err := h.Feedback.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, feedback.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to delete feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
