package payroll

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/generate",
			middleware.RBACAuthorize(rbacService, "payroll", "manage"),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
		payrolls.GET("/my-payroll", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetMy)
		payrolls.GET("/report", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.Report)
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		payrolls.PUT("/:id", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.Update)
		payrolls.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.Approve)
		payrolls.PUT("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.MarkPaid)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.Delete)
	}
}
