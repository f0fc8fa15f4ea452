package middleware

import (
	"net/http"

	"chat_gateway/internal/service"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

// Limit считает запросы по user id, а до аутентификации - по IP
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = c.ClientIP()
		}

		allowed, err := m.rateLimitService.Allow(c.Request.Context(), key)
		if err != nil {
			// Redis недоступен - запрос пропускаем
			m.log.Error("Rate limit check failed", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			_ = c.Error(errors.NewAPIError("Rate limit exceeded", http.StatusTooManyRequests))
			c.Abort()
			return
		}

		c.Next()
	}
}
