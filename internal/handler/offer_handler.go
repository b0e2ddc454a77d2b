package handler

import (
	"net/http"

	"adopte-server/internal/domain"
	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OfferHandler struct {
	service *services.OfferService
}

func NewOfferHandler(service *services.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

func (h *OfferHandler) Create(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	var req httpdto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	o, err := h.service.Create(c.Request.Context(), companyID, services.CreateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.OfferType(req.Type),
		Skills:      req.Skills,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromOffer(o)))
}

func (h *OfferHandler) GetByID(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid offer id")
		return
	}
	o, err := h.service.GetByID(c.Request.Context(), offerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromOffer(o)))
}

func (h *OfferHandler) ListOpen(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.service.ListOpen(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.OfferResponse]{
		Items: httpdto.FromOfferSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

func (h *OfferHandler) ListMine(c *gin.Context) {
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
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.OfferResponse]{
		Items: httpdto.FromOfferSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

func (h *OfferHandler) Update(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid offer id")
		return
	}
	var req httpdto.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	o, err := h.service.Update(c.Request.Context(), companyID, offerID, services.UpdateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Status:      domain.OfferStatus(req.Status),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromOffer(o)))
}

func (h *OfferHandler) Delete(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid offer id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), companyID, offerID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *OfferHandler) Apply(c *gin.Context) {
	studentID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid offer id")
		return
	}
	var req httpdto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	a, err := h.service.Apply(c.Request.Context(), studentID, offerID, req.Motivation)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromApplication(a)))
}

func (h *OfferHandler) ListApplications(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid offer id")
		return
	}
	page, limit := pageParams(c)
	items, total, err := h.service.ListApplicationsByOffer(c.Request.Context(), companyID, offerID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.ApplicationResponse]{
		Items: httpdto.FromApplicationSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

func (h *OfferHandler) ListMyApplications(c *gin.Context) {
	studentID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	page, limit := pageParams(c)
	items, total, err := h.service.ListApplicationsByStudent(c.Request.Context(), studentID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListResponse[httpdto.ApplicationResponse]{
		Items: httpdto.FromApplicationSlice(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// DecideApplication accepts or rejects a pending application. Acceptance
// opens the offer conversation between student and company.
func (h *OfferHandler) DecideApplication(c *gin.Context) {
	companyID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid application id")
		return
	}
	var req httpdto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	a, err := h.service.Decide(c.Request.Context(), companyID, applicationID, req.Accept)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromApplication(a)))
}
