package service

import (
	"context"
	"testing"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWebhookService_Create_DefaultsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookRepository(ctrl)
	svc := NewWebhookService(mockRepo)

	userID := uuid.New()
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, webhook *domain.Webhook) error {
			assert.Equal(t, userID, webhook.UserID)
			assert.Equal(t, domain.DefaultWebhookEvents, webhook.Events)
			assert.True(t, webhook.IsActive, "new webhooks start active")
			return nil
		},
	)

	webhook, err := svc.Create(context.Background(), userID, ports.CreateWebhookRequest{
		Name: "orders hook",
		URL:  "https://customer.example.com/hook",
	})
	require.NoError(t, err)
	assert.Equal(t, "orders hook", webhook.Name)
}

func TestWebhookService_Create_RejectsUnknownEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewWebhookService(mocks.NewMockWebhookRepository(ctrl))

	_, err := svc.Create(context.Background(), uuid.New(), ports.CreateWebhookRequest{
		Name:   "bad",
		URL:    "https://customer.example.com/hook",
		Events: []domain.WebhookEvent{"order.levitated"},
	})
	assertAppCode(t, err, "VAL_001")
}

func TestWebhookService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookRepository(ctrl)
	svc := NewWebhookService(mockRepo)

	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	assertAppCode(t, err, "RES_001")
}

func TestWebhookService_Update_AppliesPartialFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookRepository(ctrl)
	svc := NewWebhookService(mockRepo)

	userID := uuid.New()
	webhookID := uuid.New()
	mockRepo.EXPECT().GetByID(gomock.Any(), webhookID, userID).Return(&domain.Webhook{
		ID:       webhookID,
		UserID:   userID,
		Name:     "old name",
		URL:      "https://customer.example.com/hook",
		IsActive: true,
	}, nil)
	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	inactive := false
	newName := "new name"
	webhook, err := svc.Update(context.Background(), userID, webhookID, ports.UpdateWebhookRequest{
		Name:     &newName,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "new name", webhook.Name)
	assert.False(t, webhook.IsActive)
	assert.Equal(t, "https://customer.example.com/hook", webhook.URL, "unset fields keep their value")
}

func TestWebhookService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookRepository(ctrl)
	svc := NewWebhookService(mockRepo)

	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assertAppCode(t, err, "RES_001")
}
