package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository. Line items and packages are
// stored as JSONB documents so the embedded sub-entities keep their
// parent-owned lifecycle.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, user_id, description, status, line_items, total_amount, order_id, cust_ref_no, invoice_url, external_order_id, packages, created_at, updated_at`

func marshalOrderDocs(o *domain.Order) (lineItems, packages []byte, err error) {
	if lineItems, err = json.Marshal(o.LineItems); err != nil {
		return nil, nil, fmt.Errorf("marshal line items: %w", err)
	}
	if o.Packages == nil {
		o.Packages = []domain.Package{}
	}
	if packages, err = json.Marshal(o.Packages); err != nil {
		return nil, nil, fmt.Errorf("marshal packages: %w", err)
	}
	return lineItems, packages, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	var lineItems, packages []byte
	err := row.Scan(
		&o.ID, &o.UserID, &o.Description, &o.Status, &lineItems, &o.TotalAmount,
		&o.OrderID, &o.CustRefNo, &o.InvoiceURL, &o.ExternalOrderID, &packages,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &o.LineItems); err != nil {
			return nil, fmt.Errorf("unmarshal line items: %w", err)
		}
	}
	if len(packages) > 0 {
		if err := json.Unmarshal(packages, &o.Packages); err != nil {
			return nil, fmt.Errorf("unmarshal packages: %w", err)
		}
	}
	return o, nil
}

// Create inserts a new order with its embedded packages.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	lineItems, packages, err := marshalOrderDocs(o)
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (id, user_id, description, status, line_items, total_amount, order_id, cust_ref_no, invoice_url, external_order_id, packages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.Description, o.Status, lineItems, o.TotalAmount,
		o.OrderID, o.CustRefNo, o.InvoiceURL, o.ExternalOrderID, packages,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID fetches an order by its UUID. Returns nil, nil on miss.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

// Update overwrites the order document. Last writer wins.
func (r *OrderRepo) Update(ctx context.Context, o *domain.Order) error {
	lineItems, packages, err := marshalOrderDocs(o)
	if err != nil {
		return err
	}

	query := `UPDATE orders
		SET description=$1, status=$2, line_items=$3, total_amount=$4, order_id=$5, cust_ref_no=$6, invoice_url=$7, external_order_id=$8, packages=$9, updated_at=$10
		WHERE id=$11`

	_, err = r.pool.Exec(ctx, query,
		o.Description, o.Status, lineItems, o.TotalAmount, o.OrderID,
		o.CustRefNo, o.InvoiceURL, o.ExternalOrderID, packages,
		o.UpdatedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Delete removes an order and, with it, its embedded packages.
func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// List returns a page of orders (newest first) and the unpaged total.
func (r *OrderRepo) List(ctx context.Context, params ports.OrderListParams) ([]domain.Order, int64, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var (
		rows pgx.Rows
		err  error
	)
	if params.Status != nil {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, query, *params.Status, limit, offset)
	} else {
		query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if params.Status != nil {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, *params.Status).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	return orders, total, nil
}

// Search matches the query case-insensitively against description,
// status and customer reference.
func (r *OrderRepo) Search(ctx context.Context, query string) ([]domain.Order, error) {
	pattern := "%" + query + "%"
	sql := `SELECT ` + orderColumns + ` FROM orders
		WHERE description ILIKE $1 OR status ILIKE $1 OR cust_ref_no ILIKE $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, sql, pattern)
	if err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// CountByStatus returns the number of orders per status.
func (r *OrderRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int64)
	for rows.Next() {
		var status domain.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
