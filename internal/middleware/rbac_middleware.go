package middleware

import (
	"net/http"

	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by any enforcer that answers role/resource/action
// questions.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.FromError(c, apperror.Wrap(err, apperror.CodeInternalError, "authorization check failed", http.StatusInternalServerError))
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code,
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
