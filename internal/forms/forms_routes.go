package forms

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes exposes rule sets without authentication; registration forms
// are filled in before a session exists.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/forms")
	group.Use(middleware.RateLimitByIP(rate.Limit(10), 20))
	{
		group.GET("/:name", handler.GetRuleSet)
		group.POST("/:name/validate", handler.Validate)
	}
}
