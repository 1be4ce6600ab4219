package resp

import (
	"github.com/gin-gonic/gin"
	"repohub/internal/http/dto"
)

// ErrorCodeKey carries the code of an error response to the request logger.
const ErrorCodeKey = "repohub.error_code"

func Error(c *gin.Context, status int, code, message string) {
	c.Set(ErrorCodeKey, code)
	c.JSON(status, dto.NewError(code, message))
}
