package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"warehouse-api/internal/adapter/http/dto"
	"warehouse-api/internal/adapter/http/middleware"
	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/internal/core/ports/mocks"
	"warehouse-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response should carry a data object")
	return data
}

// --- Auth Handler Tests ---

func TestSignup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Signup(gomock.Any(), ports.SignupRequest{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "password123",
	}).Return(&ports.AuthResult{
		User: &domain.User{
			ID:    userID,
			Name:  "Ops",
			Email: "ops@example.com",
			Role:  domain.UserRoleUser,
		},
		Token:     "jwt-token-123",
		ExpiresAt: expiry,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "password123",
	})

	h.Signup(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, userID.String(), user["id"])
}

func TestSignup_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{"email": "not-an-email"})

	h.Signup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "ops@example.com", "password123").Return(&ports.AuthResult{
		User:      &domain.User{ID: uuid.New(), Email: "ops@example.com"},
		Token:     "jwt-token-123",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "ops@example.com",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt-token-123", dataField(t, w)["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInvalidCredentials())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- API Key Handler Tests ---

func TestKeyCreate_ReturnsRawTokenOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mocks.NewMockAPIKeyService(ctrl)
	h := NewAPIKeyHandler(mockKeys)

	userID := uuid.New()
	mockKeys.EXPECT().Create(gomock.Any(), userID, gomock.Any()).Return(&domain.APIKey{
		ID:          uuid.New(),
		SecretToken: "wms_raw_secret",
		UserID:      userID,
		DisplayName: "CI pipeline",
		Permissions: domain.DefaultPermissions,
		IsActive:    true,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/keys", dto.CreateKeyRequest{DisplayName: "CI pipeline"})
	c.Set(middleware.CtxUserID, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "wms_raw_secret", data["secret_token"])
	assert.Contains(t, data["warning"], "won't be shown again")
}

func TestKeyCreate_NoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAPIKeyHandler(mocks.NewMockAPIKeyService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/keys", dto.CreateKeyRequest{DisplayName: "x"})

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKeyList_NeverLeaksTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mocks.NewMockAPIKeyService(ctrl)
	h := NewAPIKeyHandler(mockKeys)

	userID := uuid.New()
	mockKeys.EXPECT().List(gomock.Any(), userID).Return([]domain.APIKey{{
		ID:          uuid.New(),
		SecretToken: "wms_stored_secret",
		UserID:      userID,
		DisplayName: "key-1",
	}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/keys", nil)
	c.Set(middleware.CtxUserID, userID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "wms_stored_secret")
}

func TestKeyGet_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAPIKeyHandler(mocks.NewMockAPIKeyService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/keys/not-a-uuid", nil)
	c.Set(middleware.CtxUserID, uuid.New())
	c.Params = gin.Params{{Key: "keyId", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Order Handler Tests ---

func TestOrderCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(mockOrders)

	userID := uuid.New()
	mockOrders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req ports.CreateOrderRequest) (*domain.Order, error) {
			assert.Equal(t, userID, req.UserID)
			assert.Len(t, req.LineItems, 1)
			return &domain.Order{ID: uuid.New(), UserID: req.UserID, TotalAmount: 300}, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/orders", dto.CreateOrderRequest{
		Description: "widgets",
		LineItems: []dto.LineItemRequest{
			{ProductID: uuid.New().String(), Quantity: 3, UnitPrice: 100},
		},
	})
	c.Set(middleware.CtxUserID, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestOrderList_Envelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(mockOrders)

	mockOrders.EXPECT().List(gomock.Any(), ports.OrderListParams{Page: 2, Limit: 5}).Return(&ports.OrderPage{
		Orders:      []domain.Order{},
		TotalPages:  4,
		CurrentPage: 2,
		TotalOrders: 17,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=2&limit=5", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(4), data["totalPages"])
	assert.Equal(t, float64(2), data["currentPage"])
	assert.Equal(t, float64(17), data["totalOrders"])
	assert.NotNil(t, data["orders"])
}

func TestOrderList_StatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(mockOrders)

	mockOrders.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, params ports.OrderListParams) (*ports.OrderPage, error) {
			require.NotNil(t, params.Status)
			assert.Equal(t, domain.OrderStatusCompleted, *params.Status)
			return &ports.OrderPage{Orders: []domain.Order{}}, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=completed", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderUpdate_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewOrderHandler(mocks.NewMockOrderService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/v1/orders/abc", dto.UpdateOrderRequest{})
	c.Params = gin.Params{{Key: "orderId", Value: "abc"}}

	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderSearch_MissingQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(mockOrders)

	mockOrders.EXPECT().Search(gomock.Any(), "").Return(nil, apperror.Validation("query parameter is required"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders/search", nil)

	h.Search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderStats_SumsTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(mockOrders)

	mockOrders.EXPECT().Stats(gomock.Any()).Return(map[domain.OrderStatus]int64{
		domain.OrderStatusReceived:  2,
		domain.OrderStatusCompleted: 5,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders/stats", nil)

	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(7), data["total"])
}

// --- Public Order Handler Tests ---

func TestPublicOrderCreate_InsufficientStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewPublicOrderHandler(mockOrders)

	mockOrders.EXPECT().CreatePublic(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientStock(2, 5))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/public/orders", dto.CreateOrderRequest{
		Description: "too many",
		LineItems: []dto.LineItemRequest{
			{ProductID: uuid.New().String(), Quantity: 5, UnitPrice: 100},
		},
	})
	c.Set(middleware.CtxPrincipal, &domain.Principal{
		User: &domain.User{ID: uuid.New()},
		Key:  &domain.APIKey{ID: uuid.New()},
	})

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct {
		ErrorCode string         `json:"error_code"`
		Details   map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RES_002", resp.ErrorCode)
	assert.Equal(t, float64(2), resp.Details["available"])
	assert.Equal(t, float64(5), resp.Details["requested"])
}

func TestPublicOrderCreate_AttributesKeyOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrders := mocks.NewMockOrderService(ctrl)
	h := NewPublicOrderHandler(mockOrders)

	ownerID := uuid.New()
	mockOrders.EXPECT().CreatePublic(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, principal *domain.Principal, req ports.CreateOrderRequest) (*domain.Order, error) {
			require.NotNil(t, principal)
			assert.Equal(t, ownerID, principal.User.ID)
			return &domain.Order{ID: uuid.New(), UserID: ownerID}, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/public/orders", dto.CreateOrderRequest{
		Description: "public order",
		TotalAmount: func() *int64 { v := int64(500); return &v }(),
	})
	c.Set(middleware.CtxPrincipal, &domain.Principal{
		User: &domain.User{ID: ownerID},
		Key:  &domain.APIKey{ID: uuid.New()},
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

// --- Webhook Handler Tests ---

func TestWebhookCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhooks := mocks.NewMockWebhookService(ctrl)
	h := NewWebhookHandler(mockWebhooks)

	userID := uuid.New()
	mockWebhooks.EXPECT().Create(gomock.Any(), userID, gomock.Any()).Return(&domain.Webhook{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "orders hook",
		URL:    "https://customer.example.com/hook",
		Secret: "whsec-123",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/webhooks", dto.CreateWebhookRequest{
		Name: "orders hook",
		URL:  "https://customer.example.com/hook",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	// Webhook secrets are stored and echoed in plaintext.
	assert.Equal(t, "whsec-123", dataField(t, w)["secret"])
}

func TestWebhookCreate_RejectsPlainHTTPTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWebhookHandler(mocks.NewMockWebhookService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/webhooks", dto.CreateWebhookRequest{
		Name: "bad",
		URL:  "ftp://customer.example.com/hook",
	})
	c.Set(middleware.CtxUserID, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Activity Handler Tests ---

func TestLogCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockActivity := mocks.NewMockActivityService(ctrl)
	h := NewActivityHandler(mockActivity)

	userID := uuid.New()
	mockActivity.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, entry *domain.ActivityLog) {
			assert.Equal(t, "export", entry.Action)
			assert.Equal(t, userID, entry.UserID)
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/logs", dto.CreateLogRequest{
		Action: "export",
		Entity: "order",
	})
	c.Set(middleware.CtxUserID, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogDelete_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewActivityHandler(mocks.NewMockActivityService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/logs/abc", nil)
	c.Params = gin.Params{{Key: "logId", Value: "abc"}}

	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Tests ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(ctx context.Context) error { return f.err }
func (f fakeChecker) Name() string                   { return f.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgres"}, fakeChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgres"}, fakeChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

// --- Router Tests ---

func testRouter(t *testing.T, ctrl *gomock.Controller, keySvc ports.APIKeyService) *gin.Engine {
	t.Helper()
	return SetupRouter(RouterDeps{
		AuthSvc:    mocks.NewMockAuthService(ctrl),
		TokenSvc:   mocks.NewMockTokenService(ctrl),
		KeySvc:     keySvc,
		OrderSvc:   mocks.NewMockOrderService(ctrl),
		WebhookSvc: mocks.NewMockWebhookService(ctrl),
		Logger:     zerolog.New(io.Discard),
	})
}

func TestRouter_PublicOrders_MissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := testRouter(t, ctrl, mocks.NewMockAPIKeyService(ctrl))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTH_001", resp.ErrorCode)
}

func TestRouter_PublicOrders_PermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mocks.NewMockAPIKeyService(ctrl)
	mockKeys.EXPECT().Authenticate(gomock.Any(), "wms_readonly").Return(&domain.Principal{
		User: &domain.User{ID: uuid.New()},
		Key: &domain.APIKey{
			ID:          uuid.New(),
			IsActive:    true,
			Permissions: []domain.Permission{domain.PermOrderRead},
		},
	}, nil)

	r := testRouter(t, ctrl, mockKeys)

	req := jsonRequest(t, http.MethodPut, "/public/orders/"+uuid.New().String(), dto.UpdateOrderRequest{})
	req.Header.Set("X-API-Key", "wms_readonly")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp struct {
		ErrorCode string `json:"error_code"`
		Details   struct {
			Granted []string `json:"granted_permissions"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTH_005", resp.ErrorCode)
	assert.Equal(t, []string{domain.PermOrderRead}, resp.Details.Granted)
}

func TestRouter_ManagementRequiresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := testRouter(t, ctrl, mocks.NewMockAPIKeyService(ctrl))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/keys", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
