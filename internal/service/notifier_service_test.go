package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"warehouse-api/config"
	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func completedOrder(userID uuid.UUID, externalID string) *domain.Order {
	return &domain.Order{
		ID:      uuid.New(),
		UserID:  userID,
		Status:  domain.OrderStatusCompleted,
		OrderID: externalID,
	}
}

func TestNotifierService_Dispatch_SkipsNonCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		t.Error("no HTTP call expected")
		return okResponse(), nil
	}}
	svc := NewNotifierService(mocks.NewMockWebhookRepository(ctrl), httpClient, config.NotifierConfig{Endpoint: "https://hub.example.com/notify"}, newTestLogger())

	order := completedOrder(uuid.New(), "EXT-1")
	order.Status = domain.OrderStatusProcessing

	assert.False(t, svc.Dispatch(context.Background(), order))
}

func TestNotifierService_Dispatch_SkipsMissingExternalID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewNotifierService(mocks.NewMockWebhookRepository(ctrl), &mockHTTPClient{}, config.NotifierConfig{Endpoint: "https://hub.example.com/notify"}, newTestLogger())

	assert.False(t, svc.Dispatch(context.Background(), completedOrder(uuid.New(), "")))
}

func TestNotifierService_Dispatch_DeliversToOwnerWebhook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhookRepo := mocks.NewMockWebhookRepository(ctrl)

	requests := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)
	httpClient := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		bodies <- body
		requests <- req
		return okResponse(), nil
	}}

	svc := NewNotifierService(mockWebhookRepo, httpClient, config.NotifierConfig{Endpoint: "https://hub.example.com/notify"}, newTestLogger())

	userID := uuid.New()
	webhookID := uuid.New()
	mockWebhookRepo.EXPECT().ListActiveByEvent(gomock.Any(), userID, domain.EventOrderCompleted).Return([]domain.Webhook{{
		ID:     webhookID,
		UserID: userID,
		URL:    "https://customer.example.com/hook",
		Secret: "whsec-123",
	}}, nil)

	triggered := make(chan struct{})
	mockWebhookRepo.EXPECT().RecordTrigger(gomock.Any(), webhookID, gomock.Any()).DoAndReturn(
		func(ctx context.Context, id uuid.UUID, at time.Time) error {
			close(triggered)
			return nil
		},
	)

	assert.True(t, svc.Dispatch(context.Background(), completedOrder(userID, "EXT-42")))

	select {
	case req := <-requests:
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://customer.example.com/hook", req.URL.String())
		assert.Equal(t, "whsec-123", req.Header.Get("x-webhook-secret"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	case <-time.After(2 * time.Second):
		t.Fatal("webhook delivery not attempted in time")
	}

	var payload NotificationPayload
	require.NoError(t, json.Unmarshal(<-bodies, &payload))
	assert.Equal(t, "EXT-42", payload.OrderID)
	assert.Equal(t, "completed", payload.Status)

	select {
	case <-triggered:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger not recorded in time")
	}
}

func TestNotifierService_Dispatch_RecordsWebhookFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhookRepo := mocks.NewMockWebhookRepository(ctrl)
	httpClient := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	}}
	svc := NewNotifierService(mockWebhookRepo, httpClient, config.NotifierConfig{}, newTestLogger())

	userID := uuid.New()
	webhookID := uuid.New()
	mockWebhookRepo.EXPECT().ListActiveByEvent(gomock.Any(), userID, domain.EventOrderCompleted).Return([]domain.Webhook{{
		ID:     webhookID,
		UserID: userID,
		URL:    "https://customer.example.com/hook",
	}}, nil)

	failed := make(chan struct{})
	mockWebhookRepo.EXPECT().RecordFailure(gomock.Any(), webhookID).DoAndReturn(
		func(ctx context.Context, id uuid.UUID) error {
			close(failed)
			return nil
		},
	)

	assert.True(t, svc.Dispatch(context.Background(), completedOrder(userID, "EXT-7")))

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("failure not recorded in time")
	}
}

func TestNotifierService_Dispatch_FallsBackToGlobalEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhookRepo := mocks.NewMockWebhookRepository(ctrl)

	requests := make(chan *http.Request, 1)
	httpClient := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		requests <- req
		return okResponse(), nil
	}}

	cfg := config.NotifierConfig{
		Endpoint: "https://hub.example.com/notify",
		APIKey:   "hub-key",
	}
	svc := NewNotifierService(mockWebhookRepo, httpClient, cfg, newTestLogger())

	userID := uuid.New()
	mockWebhookRepo.EXPECT().ListActiveByEvent(gomock.Any(), userID, domain.EventOrderCompleted).Return(nil, nil)

	assert.True(t, svc.Dispatch(context.Background(), completedOrder(userID, "EXT-9")))

	select {
	case req := <-requests:
		assert.Equal(t, "https://hub.example.com/notify", req.URL.String())
		assert.Equal(t, "hub-key", req.Header.Get("X-API-Key"))
		assert.Empty(t, req.Header.Get("x-webhook-secret"))
	case <-time.After(2 * time.Second):
		t.Fatal("global delivery not attempted in time")
	}
}

func TestNotifierService_Dispatch_NoDestinationIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhookRepo := mocks.NewMockWebhookRepository(ctrl)
	httpClient := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		t.Error("no HTTP call expected")
		return okResponse(), nil
	}}
	svc := NewNotifierService(mockWebhookRepo, httpClient, config.NotifierConfig{}, newTestLogger())

	userID := uuid.New()
	mockWebhookRepo.EXPECT().ListActiveByEvent(gomock.Any(), userID, domain.EventOrderCompleted).Return(nil, nil)

	assert.False(t, svc.Dispatch(context.Background(), completedOrder(userID, "EXT-11")))
	time.Sleep(50 * time.Millisecond)
}
