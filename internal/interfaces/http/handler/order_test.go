package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tradeapp "github.com/GranDen-Corp/ls-erp-sub002/internal/application/trade"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Ensure mock implements the interface
var _ trade.OrderRepository = (*MockOrderRepository)(nil)

// Test helpers

func setupOrderTestRouter() (*gin.Engine, *MockOrderRepository) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockOrderRepository)
	service := tradeapp.NewOrderService(mockRepo)
	handler := NewOrderHandler(service)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return router, mockRepo
}

func createTestOrder(t *testing.T, orderNumber string) *trade.Order {
	t.Helper()

	order, err := trade.NewOrder(orderNumber, uuid.New(), "Test Customer", valueobject.USD)
	require.NoError(t, err)

	price, err := valueobject.NewMoney(decimal.NewFromInt(10), valueobject.USD)
	require.NoError(t, err)
	_, err = order.AddItem("P-100", "Widget", decimal.NewFromInt(100), price)
	require.NoError(t, err)

	return order
}

// Tests

func TestOrderHandler_Create(t *testing.T) {
	t.Run("creates order successfully", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		mockRepo.On("GenerateOrderNumber", mock.Anything).
			Return("SO-2026-00001", nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).
			Return(nil)

		reqBody := map[string]interface{}{
			"customer_id":   uuid.New().String(),
			"customer_name": "Test Customer",
			"currency":      "USD",
			"items": []map[string]interface{}{
				{
					"product_code": "P-100",
					"product_name": "Widget",
					"quantity":     "10",
					"unit_price":   "99.99",
				},
			},
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "SO-2026-00001", data["order_number"])
		assert.Equal(t, "999.9", data["total_amount"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("returns validation details for missing customer name", func(t *testing.T) {
		router, _ := setupOrderTestRouter()

		reqBody := map[string]interface{}{
			"customer_id": uuid.New().String(),
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.False(t, response["success"].(bool))

		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errInfo["code"])
		assert.NotEmpty(t, errInfo["details"])
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	t.Run("gets order by ID", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+testOrder.ID.String(), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.True(t, response["success"].(bool))

		mockRepo.AssertExpectations(t)
	})

	t.Run("returns 404 for missing order", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		orderID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, orderID).
			Return(nil, shared.ErrNotFound)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("returns 400 for invalid order ID", func(t *testing.T) {
		router, _ := setupOrderTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_List(t *testing.T) {
	router, mockRepo := setupOrderTestRouter()

	testOrder := createTestOrder(t, "SO-2026-00001")
	mockRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return([]trade.Order{*testOrder}, nil)
	mockRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders?page=1&page_size=10", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.True(t, response["success"].(bool))

	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, float64(10), meta["page_size"])

	mockRepo.AssertExpectations(t)
}

func TestOrderHandler_AddBatch(t *testing.T) {
	t.Run("allocates batch on confirmed order", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		require.NoError(t, testOrder.Confirm())
		itemID := testOrder.Items[0].ID

		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).
			Return(nil)

		reqBody := map[string]interface{}{
			"quantity":          "40",
			"planned_ship_date": "2026-09-15T00:00:00Z",
		}
		body, _ := json.Marshal(reqBody)

		url := "/api/v1/orders/" + testOrder.ID.String() + "/items/" + itemID.String() + "/batches"
		req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(1), data["batch_number"])
		assert.Equal(t, "PENDING", data["status"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects over-allocation with 400", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		require.NoError(t, testOrder.Confirm())
		itemID := testOrder.Items[0].ID

		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)

		reqBody := map[string]interface{}{
			"quantity":          "150",
			"planned_ship_date": "2026-09-15T00:00:00Z",
		}
		body, _ := json.Marshal(reqBody)

		url := "/api/v1/orders/" + testOrder.ID.String() + "/items/" + itemID.String() + "/batches"
		req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Confirm(t *testing.T) {
	t.Run("confirms a draft order", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).
			Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/confirm", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "CONFIRMED", data["status"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("returns 422 when shipping an unallocated order", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		require.NoError(t, testOrder.Confirm())

		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/ship", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Cancel(t *testing.T) {
	t.Run("requires a cancel reason", func(t *testing.T) {
		router, _ := setupOrderTestRouter()

		body, _ := json.Marshal(map[string]interface{}{})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.New().String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cancels with reason", func(t *testing.T) {
		router, mockRepo := setupOrderTestRouter()

		testOrder := createTestOrder(t, "SO-2026-00001")
		mockRepo.On("FindByID", mock.Anything, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).
			Return(nil)

		body, _ := json.Marshal(map[string]interface{}{"reason": "Customer withdrew"})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "CANCELLED", data["status"])
		assert.Equal(t, "Customer withdrew", data["cancel_reason"])

		mockRepo.AssertExpectations(t)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	router, mockRepo := setupOrderTestRouter()

	testOrder := createTestOrder(t, "SO-2026-00001")
	mockRepo.On("FindByID", mock.Anything, testOrder.ID).
		Return(testOrder, nil)
	mockRepo.On("Delete", mock.Anything, testOrder.ID).
		Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/orders/"+testOrder.ID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertExpectations(t)
}
