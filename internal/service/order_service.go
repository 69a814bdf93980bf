package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderServiceImpl implements ports.OrderService for both the management
// and public surfaces.
type OrderServiceImpl struct {
	orderRepo   ports.OrderRepository
	productRepo ports.ProductRepository
	notifier    ports.NotifierService
	log         zerolog.Logger
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	notifier ports.NotifierService,
	log zerolog.Logger,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Create persists a new order and evaluates the completion trigger.
func (s *OrderServiceImpl) Create(ctx context.Context, req ports.CreateOrderRequest) (*domain.Order, error) {
	order, err := buildOrder(req)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}

	s.notifier.Dispatch(ctx, order)
	return order, nil
}

// CreatePublic additionally checks and decrements product stock for each
// line item before creating the order. The two writes are not atomic;
// last writer wins.
func (s *OrderServiceImpl) CreatePublic(ctx context.Context, principal *domain.Principal, req ports.CreateOrderRequest) (*domain.Order, error) {
	if principal == nil || principal.User == nil {
		return nil, apperror.ErrGuardMisuse()
	}
	req.UserID = principal.User.ID

	for _, item := range req.LineItems {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lookup product: %w", err))
		}
		if product == nil {
			return nil, apperror.ErrNotFound("Product")
		}
		if product.Quantity < item.Quantity {
			return nil, apperror.ErrInsufficientStock(product.Quantity, item.Quantity)
		}
		if err := s.productRepo.UpdateQuantity(ctx, product.ID, product.Quantity-item.Quantity); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("decrement stock: %w", err))
		}
	}

	return s.Create(ctx, req)
}

// Get returns one order.
func (s *OrderServiceImpl) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("Order")
	}
	return order, nil
}

// List returns a page of orders plus the pagination envelope fields.
func (s *OrderServiceImpl) List(ctx context.Context, params ports.OrderListParams) (*ports.OrderPage, error) {
	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &ports.OrderPage{
		Orders:      orders,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		TotalOrders: total,
	}, nil
}

// Update applies partial mutations, persists, then evaluates the
// completion trigger. The dispatch never delays or alters the response.
func (s *OrderServiceImpl) Update(ctx context.Context, orderID uuid.UUID, req ports.UpdateOrderRequest) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("Order")
	}

	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Status != nil {
		if !domain.ValidOrderStatus(*req.Status) {
			return nil, apperror.Validation(fmt.Sprintf("invalid status: %s", *req.Status))
		}
		order.Status = *req.Status
	}
	if req.LineItems != nil {
		order.LineItems = req.LineItems
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if len(order.LineItems) > 0 {
		// Line items present: the total is always derived, never declared.
		order.TotalAmount = domain.ComputeTotal(order.LineItems)
	}
	if req.OrderID != nil {
		order.OrderID = *req.OrderID
	}
	if req.CustRefNo != nil {
		order.CustRefNo = *req.CustRefNo
	}
	if req.InvoiceURL != nil {
		order.InvoiceURL = *req.InvoiceURL
	}
	if req.Packages != nil {
		order.Packages = req.Packages
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
	}

	s.notifier.Dispatch(ctx, order)
	return order, nil
}

// Delete removes an order together with its embedded packages.
func (s *OrderServiceImpl) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return apperror.ErrNotFound("Order")
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete order: %w", err))
	}
	return nil
}

// Search matches free text against description, status and customer
// reference.
func (s *OrderServiceImpl) Search(ctx context.Context, query string) ([]domain.Order, error) {
	if query == "" {
		return nil, apperror.Validation("query parameter is required")
	}
	orders, err := s.orderRepo.Search(ctx, query)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("search orders: %w", err))
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Stats returns the order count per status.
func (s *OrderServiceImpl) Stats(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("order stats: %w", err))
	}
	return counts, nil
}

// buildOrder validates a creation request into a new order. With line
// items present the total is computed; otherwise the declared total is
// required.
func buildOrder(req ports.CreateOrderRequest) (*domain.Order, error) {
	status := req.Status
	if status == "" {
		status = domain.OrderStatusReceived
	}
	if !domain.ValidOrderStatus(status) {
		return nil, apperror.Validation(fmt.Sprintf("invalid status: %s", status))
	}

	var total int64
	if len(req.LineItems) > 0 {
		total = domain.ComputeTotal(req.LineItems)
	} else {
		if req.TotalAmount == nil {
			return nil, apperror.Validation("total_amount is required when line_items is empty")
		}
		total = *req.TotalAmount
	}

	packages := req.Packages
	if packages == nil {
		packages = []domain.Package{}
	}

	now := time.Now().UTC()
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Description: req.Description,
		Status:      status,
		LineItems:   req.LineItems,
		TotalAmount: total,
		OrderID:     req.OrderID,
		CustRefNo:   req.CustRefNo,
		InvoiceURL:  req.InvoiceURL,
		Packages:    packages,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
