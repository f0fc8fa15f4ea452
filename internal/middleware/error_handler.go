package middleware

import (
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler отдает последнюю ошибку из c.Errors со статусом по таксономии ошибок.
// Текст ошибок инфраструктуры клиенту не отдается.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		statusCode := errors.HTTPStatusFromError(err)
		if statusCode >= 500 {
			log.Error("Request failed", "error", err, "path", c.FullPath())
		}

		c.JSON(statusCode, gin.H{
			"error": errors.Message(err),
		})
	}
}
