package create

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyContract) (*models.Contract, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	start := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное оформление контракта",
			requestBody: models.DummyContract{
				CustomerID:     1,
				SubscriptionID: 2,
				StartDate:      start,
				EndDate:        end,
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummyContract")).
					Return(&models.Contract{
						ID:             10,
						CustomerID:     1,
						SubscriptionID: 2,
						StartDate:      start,
						EndDate:        end,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":10`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid request body"`,
		},
		{
			name: "ошибка валидации",
			requestBody: models.DummyContract{
				CustomerID:     0,
				SubscriptionID: 2,
				StartDate:      start,
				EndDate:        end,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"message":"validation failed"`,
		},
		{
			name: "абонент не найден",
			requestBody: models.DummyContract{
				CustomerID:     77,
				SubscriptionID: 2,
				StartDate:      start,
				EndDate:        end,
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummyContract")).
					Return(nil, &errs.ReferenceNotFound{Entity: errs.EntityCustomer, ID: 77})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `customer`,
		},
		{
			name: "даты в прошлом",
			requestBody: models.DummyContract{
				CustomerID:     1,
				SubscriptionID: 2,
				StartDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:        end,
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummyContract")).
					Return(nil, &errs.RuleViolation{
						Rule:   errs.RuleContractDatesInPast,
						Detail: "contract dates must not be in the past",
					})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `contract dates must not be in the past`,
		},
		{
			name: "ошибка хранилища",
			requestBody: models.DummyContract{
				CustomerID:     1,
				SubscriptionID: 2,
				StartDate:      start,
				EndDate:        end,
			},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummyContract")).
					Return(nil, errs.Store("storage.CreateContract", assert.AnError))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"internal server error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/contracts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
