package bankcode

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/bank-codes")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", handler.List)
	}
}
