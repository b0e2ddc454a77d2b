package handler

import (
	"net/http"

	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdoptionHandler struct {
	service *services.AdoptionService
}

func NewAdoptionHandler(service *services.AdoptionService) *AdoptionHandler {
	return &AdoptionHandler{service: service}
}

func (h *AdoptionHandler) Request(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	var req httpdto.AdoptionRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		badRequest(c, "invalid student id")
		return
	}
	a, err := h.service.Request(c.Request.Context(), companyID, studentID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromAdoption(a)))
}

func (h *AdoptionHandler) ListMine(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	page, limit := pageParams(c)
	items, total, err := h.service.ListByCompany(c.Request.Context(), companyID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.AdoptionResponse]{
		Items: httpdto.FromAdoptionSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

func (h *AdoptionHandler) ListReceived(c *gin.Context) {
	studentID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	page, limit := pageParams(c)
	items, total, err := h.service.ListByStudent(c.Request.Context(), studentID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.AdoptionResponse]{
		Items: httpdto.FromAdoptionSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// Decide lets the student accept or reject a pending request. Acceptance
// opens the adoption conversation.
func (h *AdoptionHandler) Decide(c *gin.Context) {
	studentID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid request id")
		return
	}
	var req httpdto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	a, err := h.service.Decide(c.Request.Context(), studentID, requestID, req.Accept)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromAdoption(a)))
}
