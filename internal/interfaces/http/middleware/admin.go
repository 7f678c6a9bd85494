package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

// AdminTokenHeader carries the operator shared secret
const AdminTokenHeader = "X-Admin-Token"

// AdminToken guards operator routes with a shared secret.
// An empty token disables the routes: they answer 404 as if absent.
func AdminToken(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, dto.MsgNotFound))
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(AdminTokenHeader)), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid admin token"))
			return
		}
		c.Next()
	}
}
