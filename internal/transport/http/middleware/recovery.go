package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "articonnect-backend/internal/transport/http/response"
)

// Recovery panic → 500，堆栈只进日志不出响应体
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				resp.AbortErr(c, http.StatusInternalServerError, "internal error")
			}
		}()
		c.Next()
	}
}
