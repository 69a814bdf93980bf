package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Description: "pallet of widgets",
		Status:      domain.OrderStatusReceived,
		LineItems: []domain.LineItem{
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: 1500},
		},
		TotalAmount: 4500,
		OrderID:     "EXT-1",
		CustRefNo:   "CR-42",
		Packages:    []domain.Package{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func orderColumnNames() []string {
	return []string{"id", "user_id", "description", "status", "line_items", "total_amount", "order_id", "cust_ref_no", "invoice_url", "external_order_id", "packages", "created_at", "updated_at"}
}

func orderRow(t *testing.T, o *domain.Order) *pgxmock.Rows {
	t.Helper()
	lineItems, err := json.Marshal(o.LineItems)
	require.NoError(t, err)
	packages, err := json.Marshal(o.Packages)
	require.NoError(t, err)
	return pgxmock.NewRows(orderColumnNames()).AddRow(
		o.ID, o.UserID, o.Description, o.Status, lineItems, o.TotalAmount,
		o.OrderID, o.CustRefNo, o.InvoiceURL, o.ExternalOrderID, packages,
		o.CreatedAt, o.UpdatedAt,
	)
}

func TestOrderRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Description, o.Status, pgxmock.AnyArg(), o.TotalAmount,
			o.OrderID, o.CustRefNo, o.InvoiceURL, o.ExternalOrderID, pgxmock.AnyArg(),
			o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(t, o))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.LineItems, got.LineItems)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)
}

func TestOrderRepo_GetByID_Miss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(orderColumnNames()))

	got, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(orderRow(t, o))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	orders, total, err := repo.List(context.Background(), ports.OrderListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_List_StatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()
	o.Status = domain.OrderStatusCompleted

	status := domain.OrderStatusCompleted
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE status").
		WithArgs(status, 5, 5).
		WillReturnRows(orderRow(t, o))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE status`).
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(6)))

	orders, total, err := repo.List(context.Background(), ports.OrderListParams{Status: &status, Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(6), total)
}

func TestOrderRepo_Search(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("%widget%").
		WillReturnRows(orderRow(t, o))

	orders, err := repo.Search(context.Background(), "widget")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderRepo_CountByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(domain.OrderStatusReceived, int64(4)).
			AddRow(domain.OrderStatusCompleted, int64(2)))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[domain.OrderStatusReceived])
	assert.Equal(t, int64(2), counts[domain.OrderStatusCompleted])
}

func TestOrderRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM orders").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
