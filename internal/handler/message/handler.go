package message

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/middleware"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/service/message"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type Handler struct {
	service message.Service
}

func NewHandler(service message.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	m := r.Group("/messages")
	{
		m.POST("", h.Send)
		m.GET("/conversations", h.ListConversations)
		m.GET("/conversations/:user_id", h.GetConversation)
		m.PUT("/conversations/:user_id/read", h.MarkConversationRead)
	}
}

func (h *Handler) Send(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid recipient ID", err))
		return
	}

	m, err := h.service.Send(c.Request.Context(), claims.UserID, recipientID, req.Content, req.Type)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, m)
}

func (h *Handler) ListConversations(c *gin.Context) {
	claims := middleware.GetClaims(c)

	list, err := h.service.ListConversations(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) GetConversation(c *gin.Context) {
	claims := middleware.GetClaims(c)

	otherUserID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	messages, err := h.service.GetConversation(c.Request.Context(), claims.UserID, otherUserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"conversation_id": model.ConversationID(claims.UserID, otherUserID),
		"messages":        messages,
	})
}

func (h *Handler) MarkConversationRead(c *gin.Context) {
	claims := middleware.GetClaims(c)

	otherUserID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	if err := h.service.MarkConversationRead(c.Request.Context(), claims.UserID, otherUserID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nil)
}
