package handler

import (
	"warehouse-api/internal/adapter/http/dto"
	"warehouse-api/internal/adapter/http/middleware"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"
	"warehouse-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PublicOrderHandler handles the API-key-authenticated order surface.
type PublicOrderHandler struct {
	orderSvc ports.OrderService
}

// NewPublicOrderHandler creates a new PublicOrderHandler.
func NewPublicOrderHandler(orderSvc ports.OrderService) *PublicOrderHandler {
	return &PublicOrderHandler{orderSvc: orderSvc}
}

// Create handles POST /public/orders. The order is attributed to the key
// owner; product stock is checked and decremented per line item.
func (h *PublicOrderHandler) Create(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	createReq, err := toCreateOrderRequest(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderSvc.CreatePublic(c.Request.Context(), principal, createReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// List handles GET /public/orders.
func (h *PublicOrderHandler) List(c *gin.Context) {
	page, err := h.orderSvc.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toOrderListResponse(page))
}

// Get handles GET /public/orders/:orderId.
func (h *PublicOrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	order, err := h.orderSvc.Get(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

// Update handles PUT /public/orders/:orderId. Completing an order with an
// external reference fires the completion notification.
func (h *PublicOrderHandler) Update(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	updateReq, err := toUpdateOrderRequest(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderSvc.Update(c.Request.Context(), orderID, updateReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}
