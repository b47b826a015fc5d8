package enroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subsync/internal/cache"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/services/subscription"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// MockService реализует интерфейс enroll.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Enroll(ctx context.Context, walletAddress string, req models.EnrollRequest) (*subscription.EnrollResult, error) {
	args := m.Called(ctx, walletAddress, req)
	if res := args.Get(0); res != nil {
		return res.(*subscription.EnrollResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestEnrollHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	body := `{"name":"Netflix","subscriptionAddress":"0xSUB","price":9.99,"interval":30}`
	enrollReq := models.EnrollRequest{Name: "Netflix", SubscriptionAddress: "0xSUB", Price: 9.99, Interval: 30}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "новая подписка",
			body: body,
			setupMock: func(m *MockService) {
				user := &models.User{WalletAddress: "0xA1", Subscriptions: []models.Subscription{{Name: "Netflix", IsActive: true}}}
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).Return(&subscription.EnrollResult{User: user}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isActive":true`,
		},
		{
			name: "повторная активация",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).
					Return(&subscription.EnrollResult{User: &models.User{}, Reactivated: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"` + ReactivatedMessage + `"`,
		},
		{
			name:           "некорректный JSON",
			body:           `not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "нулевой интервал",
			body:           `{"name":"Netflix","subscriptionAddress":"0xSUB","price":1,"interval":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Interval is a required field",
		},
		{
			name:           "отрицательная цена",
			body:           `{"name":"Netflix","subscriptionAddress":"0xSUB","price":-1,"interval":30}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Price must be at least 0",
		},
		{
			name: "пользователь не найден",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).Return(nil, fmt.Errorf("op: %w", storage.ErrUserNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "адрес подписки занят",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).Return(nil, fmt.Errorf("op: %w", storage.ErrSubscriptionAddressTaken))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "subscription address is already in use",
		},
		{
			name: "блокировка не получена",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).Return(nil, fmt.Errorf("op: %w", cache.ErrLockTimeout))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "retry later",
		},
		{
			name: "ошибка сервиса",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Enroll", mock.Anything, "0xA1", enrollReq).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/user/0xA1/enroll", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("walletAddress", "0xA1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
