package portal

import (
	"company-registry/internal/auth"
	"company-registry/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authHandler *auth.Handler,
	authenticator auth.Authenticator,
	rbacService middleware.RBACService,
) {
	r.POST("/registrations",
		middleware.RateLimitByIP(1, 5),
		handler.Submit,
	)
	r.GET("/status/:registrationNumber",
		middleware.RateLimitByIP(5, 20),
		handler.Status,
	)
	r.GET("/status/:registrationNumber/certificate",
		middleware.RateLimitByIP(1, 5),
		handler.Certificate,
	)

	// Login: 0.2 req/s per IP, burst 5.
	auth.RegisterRoutes(r, authHandler, middleware.RateLimitByIP(0.2, 5))

	admin := r.Group("/admin/registrations")
	admin.Use(middleware.AdminAuth(authenticator))
	{
		admin.GET("",
			middleware.RBACAuthorize(rbacService, "registrations", "read"),
			handler.Dashboard,
		)
		admin.PUT("/:id/approve",
			middleware.RateLimitByAdmin(1, 5),
			middleware.RBACAuthorize(rbacService, "registrations", "approve"),
			handler.Approve,
		)
		admin.PUT("/:id/reject",
			middleware.RateLimitByAdmin(1, 5),
			middleware.RBACAuthorize(rbacService, "registrations", "reject"),
			handler.Reject,
		)
	}
}
