package authControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/middleware"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the /auth endpoints. Verifier is nil when Google sign-in
// is not configured.
type Handler struct {
	Users      *auth.Users
	Tokens     *auth.TokenService
	Blacklist  auth.TokenBlacklist
	Verifier   auth.Verifier
	Cart       *cart.Adapter
	AdminEmail string
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// signIn moves the device's anonymous cart to the user and answers with a
// fresh token.
func (h *Handler) signIn(c *gin.Context, status int, user models.User) {
	log := logger.FromGin(c)

	migrated := true
	if h.Cart != nil {
		migrated = h.Cart.Migrate(c.Request.Context(), session.FromContext(c), user.ID)
		if !migrated {
			log.Warn("guest cart was not moved to the account", zap.String("user_id", user.ID))
		}
	}

	token, expires, err := h.Tokens.Issue(user)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(status, gin.H{
		"message":       "Login successful",
		"token":         token,
		"expires_at":    expires,
		"user":          user,
		"cart_migrated": migrated,
	})
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.Users.Register(c.Request.Context(), input.Email, input.Name, input.Password)
	if errors.Is(err, auth.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	h.signIn(c, http.StatusCreated, user)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("failed to authenticate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	h.signIn(c, http.StatusOK, user)
}

// POST /auth/google
func (h *Handler) Google(c *gin.Context) {
	if h.Verifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	var input GoogleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	identity, err := h.Verifier.Verify(c.Request.Context(), input.IDToken)
	if err != nil {
		logger.FromGin(c).Info("google id token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
		return
	}

	user, err := h.Users.UpsertIdentity(c.Request.Context(), identity, h.AdminEmail)
	if err != nil {
		logger.FromGin(c).Error("failed to save google user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	h.signIn(c, http.StatusOK, user)
}

// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// POST /auth/logout revokes the presented token until it would expire.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if h.Blacklist != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.Blacklist.Add(c.Request.Context(), claims.ID, ttl); err != nil {
			logger.FromGin(c).Error("failed to revoke token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
