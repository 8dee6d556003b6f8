package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the admin session endpoints. loginGuard runs before
// Login only (rate limiting).
func RegisterRoutes(r gin.IRouter, handler *Handler, loginGuard ...gin.HandlerFunc) {
	admin := r.Group("/admin")
	{
		admin.POST("/login", append(loginGuard, handler.Login)...)
		admin.POST("/logout", handler.Logout)
		admin.GET("/logout", handler.Logout)
		admin.GET("/check-session", handler.CheckSession)
	}
}
