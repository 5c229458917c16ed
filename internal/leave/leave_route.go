package leave

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Apply)
		leaves.GET("/my-leaves", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetMy)
		leaves.GET("/balance", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetBalance)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "list"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.PUT("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}
}
