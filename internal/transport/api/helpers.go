package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/middlewares"
)

// getUserIDFromContext достает id текущего юзера, записанный auth-миддлварью.
// Вызывается только из хендлеров за AuthRequired.
func getUserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentUserIDKey)
}
