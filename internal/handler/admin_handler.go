package handler

import (
	"net/http"

	"adopte-server/internal/domain"
	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	service *services.AdminService
}

func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) DispatchBroadcast(c *gin.Context) {
	adminID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	var req httpdto.DispatchBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	conv, err := h.service.DispatchBroadcast(c.Request.Context(), adminID, services.DispatchBroadcastInput{
		Topic:     req.Topic,
		Content:   req.Content,
		Target:    domain.BroadcastTarget(req.Target),
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(conv))
}

func (h *AdminHandler) SendMessage(c *gin.Context) {
	adminID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	var req httpdto.AdminMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	conv, err := h.service.SendAdminMessage(c.Request.Context(), adminID, userID, req.Topic, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(conv))
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(stats))
}

// Cleanup triggers the expiry sweep outside its schedule.
func (h *AdminHandler) Cleanup(c *gin.Context) {
	count, err := h.service.RunCleanup(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CleanupResponse{Expired: count}))
}
