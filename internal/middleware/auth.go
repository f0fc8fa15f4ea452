package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"chat_gateway/internal/config"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDKey = "user_id"

// Claims - access token внешнего auth-сервиса
type Claims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware валидирует HMAC JWT и кладет user id в контекст
type AuthMiddleware struct {
	secret []byte
	opts   []jwt.ParserOption
	log    logger.Logger
}

func NewAuthMiddleware(cfg config.JWTConfig, log logger.Logger) *AuthMiddleware {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &AuthMiddleware{
		secret: []byte(cfg.AccessSecret),
		opts:   opts,
		log:    log,
	}
}

// RequireAuth принимает токен из Authorization: Bearer или из query ?token=
// (браузерный WebSocket не умеет слать заголовки)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			m.log.Warn("Missing token", "error", err, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, err := m.ParseToken(tokenString)
		if err != nil {
			m.log.Warn("Token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidToken.Error()})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// ParseToken возвращает user id из claim user_id, либо из sub
func (m *AuthMiddleware) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, m.opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", fmt.Errorf("token has no user id")
	}
	return userID, nil
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", fmt.Errorf("invalid authorization header format")
		}
		return parts[1], nil
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("authorization header required")
}

// UserID - user id, установленный RequireAuth
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
