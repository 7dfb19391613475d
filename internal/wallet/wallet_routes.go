package wallet

import (
	"kazini-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RouteOptions struct {
	Redis               *redis.Client
	VerifyRatePerSecond float64
	VerifyRateBurst     int
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, opts RouteOptions) {
	verifyLimit := middleware.RateLimitByUser(rate.Limit(opts.VerifyRatePerSecond), opts.VerifyRateBurst)

	w := r.Group("/wallet")
	w.Use(middleware.AuthMiddleware())
	{
		w.GET("", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.GetWallet)
		w.GET("/transactions", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.ListTransactions)

		w.GET("/funding-requests", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.ListFundingRequests)
		w.GET("/funding-requests/:id", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.GetFundingRequest)
		if opts.Redis != nil {
			w.POST(
				"/funding-requests",
				middleware.Idempotency(opts.Redis),
				middleware.RBACAuthorize(rbacService, "wallet", "fund"),
				handler.CreateFundingRequest,
			)
		} else {
			w.POST("/funding-requests", middleware.RBACAuthorize(rbacService, "wallet", "fund"), handler.CreateFundingRequest)
		}
		w.POST("/funding-requests/:id/bank-transfer-proof", middleware.RBACAuthorize(rbacService, "wallet", "fund"), handler.SubmitBankTransferProof)
		w.POST("/funding-requests/:id/mpesa-proof", middleware.RBACAuthorize(rbacService, "wallet", "fund"), handler.SubmitMpesaProof)

		w.POST("/funding-requests/:id/verify", middleware.RBACAuthorize(rbacService, "wallet", "verify"), verifyLimit, handler.Verify)
		w.POST("/funding-requests/:id/reject", middleware.RBACAuthorize(rbacService, "wallet", "verify"), handler.Reject)
		w.POST("/funding-requests/bulk-verify", middleware.RBACAuthorize(rbacService, "wallet", "verify"), verifyLimit, handler.BulkVerify)
	}
}
