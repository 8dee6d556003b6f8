package company

import (
	"net/http"

	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

// fail writes the {success:false,error} body every client of the API
// decodes.
func fail(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	c.JSON(httpErr.Status, ActionResponse{Success: false, Error: httpErr.Message})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.MapValidationError(err))
		return
	}

	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateCompanyResponse{Success: true, ID: id})
}

func (h *Handler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c *gin.Context) {
	companies, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListCompaniesResponse{Companies: companies})
}

func (h *Handler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Success: true})
}

func (h *Handler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Success: true})
}

func (h *Handler) Certificate(c *gin.Context) {
	ctx := c.Request.Context()
	artifact, err := h.service.Certificate(ctx, c.Param("key"))
	if err != nil {
		contextutil.GetLogger(ctx, h.logger).Debug("certificate not served",
			zap.String("company_id", c.Param("key")),
			zap.Error(err),
		)
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.FileName+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}
