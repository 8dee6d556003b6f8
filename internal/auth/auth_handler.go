package auth

import (
	"errors"
	"net/http"

	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie carries the admin session token.
const SessionCookie = "session"

type Handler struct {
	authenticator Authenticator
	secureCookie  bool
	maxAge        int
	logger        *zap.Logger
}

func NewHandler(a Authenticator, secureCookie bool, maxAgeSeconds int, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{authenticator: a, secureCookie: secureCookie, maxAge: maxAgeSeconds, logger: l}
}

func (h *Handler) setSession(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Success: false, Error: "Username and password are required"})
		return
	}

	token, err := h.authenticator.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && !errors.Is(err, autherrors.ErrInvalidCredentials) {
			status = appErr.HTTPStatus
		}
		c.JSON(status, LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	h.setSession(c, token, h.maxAge)
	c.JSON(http.StatusOK, LoginResponse{Success: true})
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		if err := h.authenticator.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("logout revoke failed", zap.Error(err))
		}
	}
	h.setSession(c, "", -1)
	c.JSON(http.StatusOK, LoginResponse{Success: true})
}

func (h *Handler) CheckSession(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	principal, err := h.authenticator.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Authenticated: true, Username: principal.Username})
}
