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

// OrderHandler handles the management order endpoints.
type OrderHandler struct {
	orderSvc ports.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc ports.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

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
	createReq.UserID = userID

	order, err := h.orderSvc.Create(c.Request.Context(), createReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, err := h.orderSvc.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toOrderListResponse(page))
}

// Get handles GET /api/v1/orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
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

// Update handles PUT /api/v1/orders/:orderId. A transition into the
// completed status fires the external notification.
func (h *OrderHandler) Update(c *gin.Context) {
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

// Delete handles DELETE /api/v1/orders/:orderId.
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	if err := h.orderSvc.Delete(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Order deleted"})
}

// Search handles GET /api/v1/orders/search?query=.
func (h *OrderHandler) Search(c *gin.Context) {
	orders, err := h.orderSvc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, orders)
}

// Stats handles GET /api/v1/orders/stats.
func (h *OrderHandler) Stats(c *gin.Context) {
	counts, err := h.orderSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	response.OK(c, dto.StatsResponse{Total: total, ByStatus: counts})
}

// --- shared order request plumbing ---

func toLineItems(items []dto.LineItemRequest) ([]domain.LineItem, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apperror.Validation("invalid product_id: " + it.ProductID)
		}
		out = append(out, domain.LineItem{
			ProductID: productID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return out, nil
}

func toCreateOrderRequest(req dto.CreateOrderRequest) (ports.CreateOrderRequest, error) {
	items, err := toLineItems(req.LineItems)
	if err != nil {
		return ports.CreateOrderRequest{}, err
	}
	return ports.CreateOrderRequest{
		Description: req.Description,
		Status:      domain.OrderStatus(req.Status),
		LineItems:   items,
		TotalAmount: req.TotalAmount,
		OrderID:     req.OrderID,
		CustRefNo:   req.CustRefNo,
		InvoiceURL:  req.InvoiceURL,
		Packages:    req.Packages,
	}, nil
}

func toUpdateOrderRequest(req dto.UpdateOrderRequest) (ports.UpdateOrderRequest, error) {
	items, err := toLineItems(req.LineItems)
	if err != nil {
		return ports.UpdateOrderRequest{}, err
	}
	out := ports.UpdateOrderRequest{
		Description: req.Description,
		LineItems:   items,
		TotalAmount: req.TotalAmount,
		OrderID:     req.OrderID,
		CustRefNo:   req.CustRefNo,
		InvoiceURL:  req.InvoiceURL,
		Packages:    req.Packages,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		out.Status = &status
	}
	return out, nil
}

func parseListParams(c *gin.Context) ports.OrderListParams {
	params := ports.OrderListParams{}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		params.Limit = v
	}
	if s := c.Query("status"); s != "" {
		status := domain.OrderStatus(s)
		params.Status = &status
	}
	return params
}

func toOrderListResponse(page *ports.OrderPage) dto.OrderListResponse {
	return dto.OrderListResponse{
		Orders:      page.Orders,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		TotalOrders: page.TotalOrders,
	}
}
