package userControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UpdateUserInput struct {
	Name  string `json:"name" binding:"required,min=2"`
	Phone string `json:"phone" binding:"omitempty,idphone"`
}

// GET /user
func GetUser(users *auth.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(c.Request.Context(), auth.UserID(c))
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
//
// The phone is kept as typed (08… or +628…) so it can prefill the contact
// form; it is normalized when copied onto a cart line.
func UpdateUser(users *auth.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}

		user, err := users.UpdateProfile(c.Request.Context(), auth.UserID(c), input.Name, strings.TrimSpace(input.Phone))
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			logger.FromGin(c).Error("failed to update user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
