package organization

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/service/organization"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type Handler struct {
	service *organization.Service
}

func NewHandler(service *organization.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	o := r.Group("/organizations")
	{
		o.GET("/:id", h.Get)
		o.GET("/me", auth.RequireRole(middleware.OrganizationOnly...), h.Mine)
		o.PUT("/me", auth.RequireRole(middleware.OrganizationOnly...), h.Upsert)
	}
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid organization ID", err))
		return
	}

	org, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, org)
}

func (h *Handler) Mine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	org, err := h.service.GetByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, org)
}

func (h *Handler) Upsert(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.UpsertOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	org, err := h.service.Upsert(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, org)
}
