package badge

import (
	"github.com/gin-gonic/gin"

	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/service/badge"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type Handler struct {
	service badge.Service
}

func NewHandler(service badge.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/badges")
	{
		b.GET("/my-badges", h.MyBadges)
		b.GET("/stats", h.Stats)
	}
}

func (h *Handler) MyBadges(c *gin.Context) {
	claims := middleware.GetClaims(c)

	badges, err := h.service.MyBadges(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, badges)
}

func (h *Handler) Stats(c *gin.Context) {
	claims := middleware.GetClaims(c)

	stats, err := h.service.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
