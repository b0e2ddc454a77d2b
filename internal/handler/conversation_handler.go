package handler

import (
	"net/http"

	"adopte-server/internal/domain"
	"adopte-server/internal/policy"
	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func listOptions(c *gin.Context) services.ListOptions {
	page, limit := pageParams(c)
	opts := services.ListOptions{Page: page, Limit: limit}
	if raw := c.Query("context"); raw != "" {
		ctx := domain.ConversationContext(raw)
		opts.Context = &ctx
	}
	if raw := c.Query("status"); raw != "" {
		st := domain.ConversationStatus(raw)
		opts.Status = &st
	}
	return opts
}

// List serves the caller's conversation feed: direct conversations plus
// broadcasts aimed at their role.
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	res, err := h.service.GetUserConversations(c.Request.Context(), userID, listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res))
}

// ListBroadcasts serves the role-matched broadcast inbox.
func (h *ConversationHandler) ListBroadcasts(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	res, err := h.service.GetBroadcastConversationsForUser(c.Request.Context(), userID, listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res))
}

// CheckAccess answers whether the caller may open the conversation. The
// verdict is always 200; denial is data, not an error.
func (h *ConversationHandler) CheckAccess(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	res, err := h.service.IsConversationAccessible(c.Request.Context(), conversationID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res))
}

// Get returns the conversation shaped for the caller, or the denial
// reason with the matching status code.
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	res, err := h.service.IsConversationAccessible(c.Request.Context(), conversationID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !res.Accessible {
		status := http.StatusForbidden
		if res.Reason == policy.ReasonConversationNotFound || res.Reason == policy.ReasonUserNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, httpdto.NewErrorResponse(res.Reason, "ACCESS_DENIED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res.Conversation))
}
