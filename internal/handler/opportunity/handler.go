package opportunity

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/service/application"
	"github.com/voluntr/volunteer-api/internal/service/opportunity"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type Handler struct {
	service        *opportunity.Service
	applicationSvc application.Service
}

func NewHandler(service *opportunity.Service, applicationSvc application.Service) *Handler {
	return &Handler{service: service, applicationSvc: applicationSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	o := r.Group("/opportunities")
	{
		o.GET("", h.List)
		o.GET("/:id", h.Get)
		o.POST("", auth.RequireRole(middleware.OrganizationOrAdmin...), h.Create)
		o.PUT("/:id/close", auth.RequireRole(middleware.OrganizationOrAdmin...), h.Close)
		o.GET("/:id/applications", auth.RequireRole(middleware.OrganizationOrAdmin...), h.ListApplications)
		o.POST("/:id/apply", auth.RequireRole(middleware.VolunteerOnly...), h.Apply)
	}
}

func (h *Handler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	opp, err := h.service.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, opp)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid opportunity ID", err))
		return
	}

	opp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, opp)
}

func (h *Handler) List(c *gin.Context) {
	var filters model.OpportunityFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	opps, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, opps)
}

func (h *Handler) Close(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid opportunity ID", err))
		return
	}

	if err := h.service.Close(c.Request.Context(), id, claims); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) Apply(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid opportunity ID", err))
		return
	}

	var req model.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	app, err := h.applicationSvc.Apply(c.Request.Context(), claims.UserID, id, req.Message)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, app)
}

func (h *Handler) ListApplications(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid opportunity ID", err))
		return
	}

	apps, err := h.applicationSvc.ListForOpportunity(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apps)
}
