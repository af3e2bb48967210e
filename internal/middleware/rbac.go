package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholark/scholark-backend/internal/response"
)

// RequireRole checks that the staff JWT carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != role {
			if role == "admin" {
				response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			} else {
				response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			}
			return
		}

		c.Next()
	}
}
