package user

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/profile/me", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetProfile)
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "list"), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetById)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.Update)
		users.PUT("/:id/password", middleware.RBACAuthorize(rbacService, "user", "read"), handler.UpdatePassword)
		users.PUT("/:id/activate", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.Activate)
		users.PUT("/:id/deactivate", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.Deactivate)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.Delete)
		users.POST("/:id/documents", middleware.RBACAuthorize(rbacService, "user", "read"), handler.AddDocument)
		users.DELETE("/:id/documents/:docId", middleware.RBACAuthorize(rbacService, "user", "read"), handler.RemoveDocument)
	}
}
