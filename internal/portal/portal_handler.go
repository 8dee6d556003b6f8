// Package portal serves the applicant and reviewer flows over the
// registry services: submission, status lookup with certificate download,
// and the admin review dashboard.
package portal

import (
	"net/http"
	"strconv"

	"company-registry/internal/registry"
	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/contextutil"
	"company-registry/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	registration *registry.RegistrationService
	review       *registry.ReviewService
	lookup       *registry.LookupService
	logger       *zap.Logger
}

func NewHandler(
	registration *registry.RegistrationService,
	review *registry.ReviewService,
	lookup *registry.LookupService,
	logger ...*zap.Logger,
) *Handler {
	l := zap.L().Named("portal.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("portal.handler")
	}
	return &Handler{
		registration: registration,
		review:       review,
		lookup:       lookup,
		logger:       l,
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req registry.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	id, err := h.registration.Submit(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, registry.SubmitResponse{ID: id})
}

func (h *Handler) Status(c *gin.Context) {
	res, err := h.lookup.Lookup(c.Request.Context(), c.Param("registrationNumber"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Certificate(c *gin.Context) {
	ctx := c.Request.Context()
	regNo := c.Param("registrationNumber")

	res, err := h.lookup.Lookup(ctx, regNo)
	if err != nil {
		response.FromError(c, err)
		return
	}

	artifact, err := res.RequestCertificate(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, h.logger).Warn("certificate download refused",
			zap.String("registration_number", regNo),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.FileName+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.review.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}

func (h *Handler) Approve(c *gin.Context) {
	dashboard, err := h.review.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}

// Reject takes the confirmation from ?confirm=true or a {"confirm":true}
// body.
func (h *Handler) Reject(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed && c.Request.ContentLength != 0 {
		var req RejectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, apperror.MapValidationError(err))
			return
		}
		confirmed = req.Confirm
	}

	dashboard, err := h.review.Reject(c.Request.Context(), c.Param("id"), confirmed)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}
