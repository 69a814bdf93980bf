package handler

import (
	"strconv"

	"warehouse-api/internal/adapter/http/dto"
	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"
	"warehouse-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles the audit-trail endpoints.
type ActivityHandler struct {
	activitySvc ports.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activitySvc ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// Create handles POST /api/v1/logs — explicit recording of an entry.
// Persistence is detached, so a well-formed request always succeeds.
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	entry := &domain.ActivityLog{
		Action:      req.Action,
		Description: req.Description,
		Entity:      req.Entity,
		EntityID:    req.EntityID,
		UserID:      userID,
		IPAddress:   c.ClientIP(),
	}
	h.activitySvc.Record(c.Request.Context(), entry)

	response.Created(c, entry)
}

// List handles GET /api/v1/logs.
func (h *ActivityHandler) List(c *gin.Context) {
	entries, err := h.activitySvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ListRecent handles GET /api/v1/logs/recent.
func (h *ActivityHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.activitySvc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ListByUser handles GET /api/v1/logs/user/:userId.
func (h *ActivityHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	entries, err := h.activitySvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// Delete handles DELETE /api/v1/logs/:logId.
func (h *ActivityHandler) Delete(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("logId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid log id"))
		return
	}

	if err := h.activitySvc.Delete(c.Request.Context(), logID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Activity log deleted"})
}
