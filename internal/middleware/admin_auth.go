package middleware

import (
	"strings"

	"company-registry/internal/auth"
	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/shared/contextutil"
	"company-registry/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextAdminUsername = "admin_username"
	ContextRole          = "role"
)

// SessionToken reads the bearer token, falling back to the session cookie.
func SessionToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return token
	}
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func AdminAuth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			response.FromError(c, autherrors.ErrUnauthorized)
			c.Abort()
			return
		}

		principal, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminUsername, principal.Username)
		c.Set(ContextRole, principal.Role)
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), principal.Username))

		c.Next()
	}
}
