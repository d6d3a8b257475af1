package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventory-api/internal/models"
	"inventory-api/internal/services"
)

// MockAlertComputer is a mock implementation of services.AlertComputer
type MockAlertComputer struct {
	mock.Mock
}

var _ services.AlertComputer = (*MockAlertComputer)(nil)

func (m *MockAlertComputer) ComputeLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LowStockAlert), args.Error(1)
}

func newAlertTestRouter(computer services.AlertComputer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &InventoryHandler{alerts: computer}
	router := gin.New()
	router.GET("/api/v1/companies/:companyId/alerts/low-stock", handler.GetLowStockAlerts)
	return router
}

func TestGetLowStockAlerts_OK(t *testing.T) {
	companyID := uuid.New()
	days := 6
	computer := new(MockAlertComputer)
	computer.On("ComputeLowStockAlerts", mock.Anything, companyID).Return([]models.LowStockAlert{
		{
			ProductID:         uuid.New(),
			ProductName:       "Blue Widget",
			SKU:               "WID-001",
			WarehouseID:       uuid.New(),
			WarehouseName:     "Main",
			CurrentQuantity:   20,
			Threshold:         25,
			AvgDailySales:     3.0,
			DaysUntilStockout: &days,
		},
	}, nil)

	router := newAlertTestRouter(computer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+companyID.String()+"/alerts/low-stock", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.LowStockAlertResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "WID-001", resp.Data[0].SKU)
	if assert.NotNil(t, resp.Data[0].DaysUntilStockout) {
		assert.Equal(t, 6, *resp.Data[0].DaysUntilStockout)
	}
}

func TestGetLowStockAlerts_EmptyList(t *testing.T) {
	companyID := uuid.New()
	computer := new(MockAlertComputer)
	computer.On("ComputeLowStockAlerts", mock.Anything, companyID).Return([]models.LowStockAlert{}, nil)

	router := newAlertTestRouter(computer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+companyID.String()+"/alerts/low-stock", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.LowStockAlertResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Data)
}

func TestGetLowStockAlerts_CompanyNotFound(t *testing.T) {
	companyID := uuid.New()
	computer := new(MockAlertComputer)
	computer.On("ComputeLowStockAlerts", mock.Anything, companyID).Return(nil, services.ErrCompanyNotFound)

	router := newAlertTestRouter(computer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+companyID.String()+"/alerts/low-stock", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "COMPANY_NOT_FOUND", resp.Error.Code)
}

func TestGetLowStockAlerts_InvalidCompanyID(t *testing.T) {
	computer := new(MockAlertComputer)

	router := newAlertTestRouter(computer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/not-a-uuid/alerts/low-stock", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	computer.AssertNotCalled(t, "ComputeLowStockAlerts", mock.Anything, mock.Anything)
}
