package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/response"
)

func AuthMiddleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if err := provider.ValidateToken(c.Request.Context(), token); err == nil {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.APIResponse{
			Error: internal.NewAppError(http.StatusUnauthorized, "Unauthorized"),
		})
	}
}
