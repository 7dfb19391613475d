package payrollcycle

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/summary", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetSummary)
		payroll.POST("/process", middleware.RBACAuthorize(rbacService, "payroll", "process"), handler.Process)
	}

	cycles := r.Group("/payroll-cycles")
	cycles.Use(middleware.AuthMiddleware())
	{
		cycles.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.List)
		cycles.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		cycles.GET("/:id/items", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetItems)
		cycles.GET("/:id/report", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Report)
		if rdb != nil {
			cycles.POST(
				"/:id/disburse",
				middleware.Idempotency(rdb),
				middleware.RBACAuthorize(rbacService, "payroll", "disburse"),
				handler.Disburse,
			)
		} else {
			cycles.POST("/:id/disburse", middleware.RBACAuthorize(rbacService, "payroll", "disburse"), handler.Disburse)
		}
	}
}
