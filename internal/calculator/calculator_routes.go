package calculator

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/payroll/calculator", middleware.AuthMiddleware(), handler.Calculate)
}
