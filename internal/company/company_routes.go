package company

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	company := r.Group("/companies")
	{
		// Onboarding runs before the user belongs to a company.
		company.POST("",
			middleware.UserAuthMiddleware(),
			middleware.RateLimitByUser(0.1, 1),
			handler.Register,
		)

		company.GET("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		company.PUT("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "company", "update"),
			handler.UpdateMe,
		)
	}
}
