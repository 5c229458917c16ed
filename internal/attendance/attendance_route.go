package attendance

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/check-in", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.CheckIn)
		attendances.POST("/check-out", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.CheckOut)
		attendances.GET("/my-attendance", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetMy)
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "list"), handler.GetAll)
		attendances.GET("/report", middleware.RBACAuthorize(rbacService, "attendance", "report"), handler.Report)
		attendances.GET("/:id", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetByID)
		attendances.POST("", middleware.RBACAuthorize(rbacService, "attendance", "manage"), handler.Add)
		attendances.PUT("/:id", middleware.RBACAuthorize(rbacService, "attendance", "manage"), handler.Update)
	}
}
