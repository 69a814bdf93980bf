package handler

import (
	"warehouse-api/internal/adapter/http/dto"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"
	"warehouse-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const keyCreatedWarning = "Store this token securely. It won't be shown again."

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	keySvc ports.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(keySvc ports.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keySvc: keySvc}
}

// Create handles POST /api/v1/keys. This is the only response that ever
// carries the raw secret token.
func (h *APIKeyHandler) Create(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	key, err := h.keySvc.Create(c.Request.Context(), userID, ports.CreateKeyRequest{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: req.Permissions,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.KeyCreatedResponse{
		APIKeyResponse: dto.FromAPIKey(key),
		SecretToken:    key.SecretToken,
		Warning:        keyCreatedWarning,
	})
}

// List handles GET /api/v1/keys.
func (h *APIKeyHandler) List(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	keys, err := h.keySvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]dto.APIKeyResponse, 0, len(keys))
	for i := range keys {
		views = append(views, dto.FromAPIKey(&keys[i]))
	}
	response.OK(c, views)
}

// Get handles GET /api/v1/keys/:keyId.
func (h *APIKeyHandler) Get(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid key id"))
		return
	}

	key, err := h.keySvc.Get(c.Request.Context(), userID, keyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAPIKey(key))
}

// Update handles PUT /api/v1/keys/:keyId.
func (h *APIKeyHandler) Update(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid key id"))
		return
	}

	var req dto.UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	key, err := h.keySvc.Update(c.Request.Context(), userID, keyID, ports.UpdateKeyRequest{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
		ExpiresAt:   req.ExpiresAt,
		ClearExpiry: req.ClearExpiry,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromAPIKey(key))
}

// Revoke handles DELETE /api/v1/keys/:keyId.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid key id"))
		return
	}

	if err := h.keySvc.Revoke(c.Request.Context(), userID, keyID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "API key revoked"})
}
