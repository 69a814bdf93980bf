package handler

import (
	"warehouse-api/internal/adapter/http/dto"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"
	"warehouse-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler handles webhook management endpoints.
type WebhookHandler struct {
	webhookSvc ports.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// Create handles POST /api/v1/webhooks.
func (h *WebhookHandler) Create(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	webhook, err := h.webhookSvc.Create(c.Request.Context(), userID, ports.CreateWebhookRequest{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Events:      req.Events,
		Secret:      req.Secret,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, webhook)
}

// List handles GET /api/v1/webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	webhooks, err := h.webhookSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, webhooks)
}

// Get handles GET /api/v1/webhooks/:webhookId.
func (h *WebhookHandler) Get(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, err := uuid.Parse(c.Param("webhookId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid webhook id"))
		return
	}

	webhook, err := h.webhookSvc.Get(c.Request.Context(), userID, webhookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, webhook)
}

// Update handles PUT /api/v1/webhooks/:webhookId.
func (h *WebhookHandler) Update(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, err := uuid.Parse(c.Param("webhookId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid webhook id"))
		return
	}

	var req dto.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	webhook, err := h.webhookSvc.Update(c.Request.Context(), userID, webhookID, ports.UpdateWebhookRequest{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Events:      req.Events,
		IsActive:    req.IsActive,
		Secret:      req.Secret,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, webhook)
}

// Delete handles DELETE /api/v1/webhooks/:webhookId.
func (h *WebhookHandler) Delete(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	webhookID, err := uuid.Parse(c.Param("webhookId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid webhook id"))
		return
	}

	if err := h.webhookSvc.Delete(c.Request.Context(), userID, webhookID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Webhook deleted"})
}
