package create

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validReq := models.CreateUserRequest{Name: "Alice", Email: "alice@example.com", WalletAddress: "0xA1"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"name":"Alice","email":"alice@example.com","walletAddress":"0xA1"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, validReq).
					Return(&models.User{ID: "u-1", Name: "Alice", WalletAddress: "0xA1", Subscriptions: []models.Subscription{}}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"walletAddress":"0xA1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "невалидный email",
			body:           `{"name":"Alice","email":"nope","walletAddress":"0xA1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Email must be a valid email",
		},
		{
			name:           "нет адреса кошелька",
			body:           `{"name":"Alice","email":"alice@example.com"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field WalletAddress is a required field",
		},
		{
			name: "пользователь уже существует",
			body: `{"name":"Alice","email":"alice@example.com","walletAddress":"0xA1"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, validReq).Return(nil, fmt.Errorf("op: %w", storage.ErrUserExists))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "already exists",
		},
		{
			name: "ошибка сервиса",
			body: `{"name":"Alice","email":"alice@example.com","walletAddress":"0xA1"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, validReq).Return(nil, errors.New("db down"))
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
			req := httptest.NewRequest(http.MethodPost, "/api/user", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
