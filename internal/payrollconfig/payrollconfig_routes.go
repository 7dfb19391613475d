package payrollconfig

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/payroll/config")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Get)
		group.PUT("", middleware.RBACAuthorize(rbacService, "payroll", "configure"), handler.Upsert)
	}
}
