package application

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/service/application"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type Handler struct {
	service application.Service
}

func NewHandler(service application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	a := r.Group("/applications")
	{
		a.GET("", auth.RequireRole(middleware.VolunteerOrAdmin...), h.ListMine)
		a.PUT("/:id/status", auth.RequireRole(middleware.OrganizationOrAdmin...), h.UpdateStatus)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	apps, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apps)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid application ID", err))
		return
	}

	var req model.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	status, ok := model.ParseApplicationStatus(req.Status)
	if !ok {
		httputil.RespondWithError(c, apperrors.Validation("invalid status", nil))
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, app)
}
