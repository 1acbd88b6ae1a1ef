package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// CredentialChecker validates admin credentials.
type CredentialChecker interface {
	Authenticate(user, password string) error
}

// AdminUserContextKey stores the authenticated admin name.
const AdminUserContextKey = "admin_user"

// BasicAuth guards admin routes with HTTP Basic credentials.
func BasicAuth(checker CredentialChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		if !ok || checker.Authenticate(user, password) != nil {
			c.Header("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
			return
		}
		c.Set(AdminUserContextKey, user)
		c.Next()
	}
}
