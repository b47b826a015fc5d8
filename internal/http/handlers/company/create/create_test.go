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

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.CreateCompanyRequest) (*models.Company, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateCompanyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	body := `{"name":"Netflix","walletAddress":"0xN","chainID":137,"price":10}`
	companyReq := models.CreateCompanyRequest{Name: "Netflix", WalletAddress: "0xN", ChainID: 137, Price: 10}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, companyReq).
					Return(&models.Company{ID: "c-1", Name: "Netflix", WalletAddress: "0xN", ChainID: 137, Price: 10}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"chainID":137`,
		},
		{
			name: "имя уже занято",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, companyReq).Return(nil, fmt.Errorf("op: %w", storage.ErrCompanyExists))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"company with this name already exists"}`,
		},
		{
			name:           "нет chainID",
			body:           `{"name":"Netflix","walletAddress":"0xN","price":10}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field ChainID is a required field",
		},
		{
			name:           "некорректный JSON",
			body:           `[]`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "ошибка сервиса",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, companyReq).Return(nil, errors.New("db down"))
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
			req := httptest.NewRequest(http.MethodPost, "/api/company", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
