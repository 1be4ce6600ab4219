package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"repohub/internal/http/resp"
)

// ZapRecovery turns a handler panic into the standard internal_error body.
func ZapRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("route", routeLabel(c)),
			zap.Stack("stack"),
		)
		resp.Error(c, http.StatusInternalServerError, resp.CodeInternalError, "internal error")
		c.Abort()
	})
}
