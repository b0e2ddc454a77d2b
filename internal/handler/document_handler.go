package handler

import (
	"net/http"

	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RequestCVUpload hands the student a presigned PUT URL for their CV.
func (h *DocumentHandler) RequestCVUpload(c *gin.Context) {
	studentID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	var req httpdto.CVUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	ticket, err := h.service.RequestCVUpload(c.Request.Context(), studentID, req.ContentType, req.SizeBytes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(ticket))
}

// DownloadCV returns a presigned GET URL for the target student's CV.
func (h *DocumentHandler) DownloadCV(c *gin.Context) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid student id")
		return
	}
	url, err := h.service.CVDownloadURL(c.Request.Context(), principal, studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CVDownloadResponse{URL: url}))
}
