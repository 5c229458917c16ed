package app

import (
	"database/sql"
	"os"

	"go-hrms/internal/attendance"
	"go-hrms/internal/auth"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	attendanceService := attendance.NewService(db, attendanceRepo)
	authService := auth.NewService(authRepo, counterRepo)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo)
	payrollService := payroll.NewService(db, payrollRepo, outboxRepo, payroll.Config{
		RequireApprovedBeforePaid: os.Getenv("PAYROLL_REQUIRE_APPROVAL") == "true",
	})
	userService := user.NewService(db, userRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)
	userHandler := user.NewHandler(userService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		user.RegisterRoutes(api, userHandler, rbacService)
	}

	return nil
}
