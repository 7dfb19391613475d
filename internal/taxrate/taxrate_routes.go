package taxrate

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/tax-rates")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/current", middleware.RBACAuthorize(rbacService, "tax_rate", "read"), handler.GetCurrent)
		group.GET("", middleware.RBACAuthorize(rbacService, "tax_rate", "read"), handler.List)
		group.POST("", middleware.RBACAuthorize(rbacService, "tax_rate", "manage"), handler.Create)
		group.POST("/cache/invalidate", middleware.RBACAuthorize(rbacService, "tax_rate", "manage"), handler.InvalidateCache)
	}
}
