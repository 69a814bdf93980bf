package postgres

import (
	"context"
	"testing"
	"time"

	"warehouse-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWebhook() *domain.Webhook {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Webhook{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Name:      "fulfillment sync",
		URL:       "https://hooks.example.com/orders",
		Events:    []string{string(domain.EventOrderCompleted)},
		IsActive:  true,
		Secret:    "whsec_test",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func webhookColumnNames() []string {
	return []string{"id", "user_id", "name", "url", "description", "events", "is_active", "secret", "last_triggered_at", "failure_count", "created_at", "updated_at"}
}

func webhookRow(w *domain.Webhook) *pgxmock.Rows {
	return pgxmock.NewRows(webhookColumnNames()).AddRow(
		w.ID, w.UserID, w.Name, w.URL, w.Description, w.Events,
		w.IsActive, w.Secret, w.LastTriggeredAt, w.FailureCount,
		w.CreatedAt, w.UpdatedAt,
	)
}

func TestWebhookRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectExec("INSERT INTO webhooks").
		WithArgs(w.ID, w.UserID, w.Name, w.URL, w.Description, w.Events,
			w.IsActive, w.Secret, w.LastTriggeredAt, w.FailureCount,
			w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_GetByID_Miss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM webhooks WHERE id").
		WithArgs(id, userID).
		WillReturnRows(pgxmock.NewRows(webhookColumnNames()))

	got, err := repo.GetByID(context.Background(), id, userID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestWebhookRepo_ListActiveByEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	w := newTestWebhook()

	mock.ExpectQuery("SELECT (.+) FROM webhooks").
		WithArgs(w.UserID, domain.EventOrderCompleted).
		WillReturnRows(webhookRow(w))

	hooks, err := repo.ListActiveByEvent(context.Background(), w.UserID, domain.EventOrderCompleted)
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	assert.Equal(t, w.URL, hooks[0].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_RecordTrigger(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE webhooks SET last_triggered_at").
		WithArgs(at, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.RecordTrigger(context.Background(), id, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_RecordFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE webhooks SET failure_count = failure_count \+ 1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.RecordFailure(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
