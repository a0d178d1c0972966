package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// tokenFromRequest accepts "Bearer <t>", a bare token in the Authorization
// header, or ?token= for websocket clients that cannot set headers.
func tokenFromRequest(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return c.Query("token")
}

func verify(c *gin.Context, tokens *auth.TokenService, blacklist auth.TokenBlacklist) (*auth.Claims, error) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return nil, errMissingToken
	}
	claims, err := tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if blacklist != nil {
		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			// a blacklist outage should not lock everyone out
			logger.FromGin(c).Warn("token blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}
	return claims, nil
}

var errMissingToken = errors.New("authorization header is missing")

func authError(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "Authorization header is missing"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "Token has been revoked"
	default:
		return "Invalid or expired token"
	}
}

// ValidateToken rejects requests without a valid, unrevoked token.
func ValidateToken(tokens *auth.TokenService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verify(c, tokens, blacklist)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authError(err), "login": "/auth/login"})
			return
		}
		auth.SetClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through as anonymous.
func OptionalAuth(tokens *auth.TokenService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := verify(c, tokens, blacklist); err == nil {
			auth.SetClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin admits admin tokens, or machine clients that present the
// configured X-API-KEY. An empty key disables the header path.
func RequireAdmin(tokens *auth.TokenService, blacklist auth.TokenBlacklist, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-KEY"); key != "" && apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Set("api_key", true)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}

		claims, err := verify(c, tokens, blacklist)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authError(err), "login": "/auth/login"})
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		auth.SetClaims(c, claims)
		c.Next()
	}
}
