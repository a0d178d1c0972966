package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims is the payload of every token this service issues.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	exp := cfg.Expiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return &TokenService{secret: []byte(cfg.Secret), expiration: exp, issuer: cfg.Issuer}
}

// Issue signs a token for user and returns it with its expiry.
func (s *TokenService) Issue(user models.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Name:    user.Name,
		Picture: user.Picture,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies the signature and registered claims of tokenString.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
