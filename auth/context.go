package auth

import "github.com/gin-gonic/gin"

const (
	claimsKey = "claims"
	userIDKey = "user_id"
)

// SetClaims stores verified claims on the request.
func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(claimsKey, claims)
	c.Set(userIDKey, claims.UserID)
}

// ClaimsFrom returns the request's verified claims, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the signed-in user's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
