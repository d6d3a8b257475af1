package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"inventory-api/internal/models"
	"inventory-api/internal/repository"
)

func movementRequest(companyID, productID, warehouseID uuid.UUID, change int, reason models.MovementReason) models.AppendMovementRequest {
	return models.AppendMovementRequest{
		CompanyID:      companyID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		QuantityChange: change,
		Reason:         reason,
	}
}

func TestAppendMovement_Success(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetProductByID", companyID, productID).Return(&models.Product{ID: productID, CompanyID: companyID}, nil)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("AppendMovement", companyID, mock.MatchedBy(func(m *models.StockMovement) bool {
		return m.ProductID == productID && m.WarehouseID == warehouseID && m.QuantityChange == -5 && m.Reason == models.MovementReasonSale
	})).Return(nil)

	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, productID, warehouseID, -5, models.MovementReasonSale))

	assert.NoError(t, err)
	assert.NotNil(t, movement)
	assert.Equal(t, companyID, movement.CompanyID)
	mockRepo.AssertExpectations(t)
}

func TestAppendMovement_InsufficientStock(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetProductByID", companyID, productID).Return(&models.Product{ID: productID, CompanyID: companyID}, nil)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("AppendMovement", companyID, mock.Anything).Return(repository.ErrInsufficientStock)

	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, productID, warehouseID, -100, models.MovementReasonSale))

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, movement)
}

func TestAppendMovement_ProductNotFound(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetProductByID", companyID, productID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, productID, warehouseID, 10, models.MovementReasonStockIn))

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, movement)
	mockRepo.AssertNotCalled(t, "AppendMovement", mock.Anything, mock.Anything)
}

func TestAppendMovement_RejectsPositiveSale(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()

	// A positive sale would raise stock yet still count as units sold in
	// the velocity aggregation
	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, uuid.New(), uuid.New(), 5, models.MovementReasonSale))

	assert.ErrorIs(t, err, ErrInvalidMovement)
	assert.Nil(t, movement)
	mockRepo.AssertNotCalled(t, "GetCompanyByID", mock.Anything)
	mockRepo.AssertNotCalled(t, "AppendMovement", mock.Anything, mock.Anything)
}

func TestAppendMovement_RejectsNegativeStockIn(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()

	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, uuid.New(), uuid.New(), -5, models.MovementReasonStockIn))

	assert.ErrorIs(t, err, ErrInvalidMovement)
	assert.Nil(t, movement)
	mockRepo.AssertNotCalled(t, "AppendMovement", mock.Anything, mock.Anything)
}

func TestAppendMovement_AdjustmentEitherSign(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetProductByID", companyID, productID).Return(&models.Product{ID: productID, CompanyID: companyID}, nil)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("AppendMovement", companyID, mock.Anything).Return(nil)

	svc := NewMovementService(mockRepo, nil)

	movement, err := svc.AppendMovement(movementRequest(companyID, productID, warehouseID, -3, models.MovementReasonAdjustment))
	assert.NoError(t, err)
	assert.NotNil(t, movement)

	movement, err = svc.AppendMovement(movementRequest(companyID, productID, warehouseID, 3, models.MovementReasonAdjustment))
	assert.NoError(t, err)
	assert.NotNil(t, movement)
}

func TestAppendMovement_CompanyNotFound(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()

	mockRepo.On("GetCompanyByID", companyID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewMovementService(mockRepo, nil)
	movement, err := svc.AppendMovement(movementRequest(companyID, uuid.New(), uuid.New(), 10, models.MovementReasonStockIn))

	assert.ErrorIs(t, err, ErrCompanyNotFound)
	assert.Nil(t, movement)
}
