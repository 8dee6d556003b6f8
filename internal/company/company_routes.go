package company

import (
	"company-registry/internal/auth"
	"company-registry/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authenticator auth.Authenticator,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	r.Use(middleware.CORS())
	r.OPTIONS("/*path", middleware.Preflight)

	r.GET("/health", handler.Health)

	api := r.Group("/api")
	{
		// Submissions: 1 req/s per IP, burst 5.
		api.POST("/companies",
			middleware.RateLimitByIP(1, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		api.GET("/companies/:key",
			middleware.RateLimitByIP(5, 20),
			handler.Get,
		)
		api.GET("/companies/:key/certificate",
			middleware.RateLimitByIP(1, 5),
			handler.Certificate,
		)
	}

	admin := api.Group("/admin/companies")
	admin.Use(middleware.AdminAuth(authenticator))
	{
		admin.GET("",
			middleware.RateLimitByAdmin(2, 10),
			middleware.RBACAuthorize(rbacService, "companies", "read"),
			handler.List,
		)
		admin.PUT("/:id/approve",
			middleware.RateLimitByAdmin(1, 5),
			middleware.RBACAuthorize(rbacService, "companies", "approve"),
			handler.Approve,
		)
		admin.PUT("/:id/reject",
			middleware.RateLimitByAdmin(1, 5),
			middleware.RBACAuthorize(rbacService, "companies", "reject"),
			handler.Reject,
		)
	}
}
