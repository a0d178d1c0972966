package feedbackControllers

import (
	"net/http"

	"github.com/MUHULILAMRI/Done-Fast/feedback"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmitInput struct {
	Name    string `json:"name" binding:"omitempty,min=2"`
	Email   string `json:"email" binding:"omitempty,email"`
	Message string `json:"message" binding:"required,min=10"`
}

// POST /feedback
func SubmitFeedback(store *feedback.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SubmitInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}

		fb, err := store.Create(c.Request.Context(), input.Name, input.Email, input.Message)
		if err != nil {
			logger.FromGin(c).Error("failed to save feedback", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengirim masukan. Silakan coba lagi."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Terima kasih atas masukan Anda!",
			"feedback": fb,
		})
	}
}
