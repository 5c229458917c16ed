package middleware

import (
	"net/http"

	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is a local interface so the middleware does not depend on the
// rbac package directly.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

// RBACAuthorize gates a route on (caller role, resource, action). Ownership
// checks (own leave, own payroll) stay in the services.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
