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

func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("CountProductsBySKU", companyID, "WID-001").Return(int64(0), nil)
	mockRepo.On("CreateProductWithInitialStock", companyID, mock.AnythingOfType("*models.Product"), warehouseID, 50).Return(nil)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(companyID, models.CreateProductRequest{
		Name:              "Blue Widget",
		SKU:               "WID-001",
		Price:             9.99,
		LowStockThreshold: 10,
		WarehouseID:       warehouseID,
		InitialQuantity:   50,
	})

	assert.NoError(t, err)
	assert.NotNil(t, product)
	assert.Equal(t, "WID-001", product.SKU)
	assert.Equal(t, companyID, product.CompanyID)
	mockRepo.AssertExpectations(t)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("CountProductsBySKU", companyID, "WID-001").Return(int64(1), nil)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(companyID, models.CreateProductRequest{
		Name:        "Blue Widget",
		SKU:         "WID-001",
		WarehouseID: warehouseID,
	})

	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.Nil(t, product)
	mockRepo.AssertNotCalled(t, "CreateProductWithInitialStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_DuplicateSKURace(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("CountProductsBySKU", companyID, "WID-001").Return(int64(0), nil)
	// Pre-check passed but a concurrent insert won the unique index
	mockRepo.On("CreateProductWithInitialStock", companyID, mock.AnythingOfType("*models.Product"), warehouseID, 0).Return(repository.ErrDuplicateSKU)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(companyID, models.CreateProductRequest{
		Name:        "Blue Widget",
		SKU:         "WID-001",
		WarehouseID: warehouseID,
	})

	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.Nil(t, product)
}

func TestCreateProduct_SameSKUDifferentCompany(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	otherCompanyID := uuid.New()
	warehouseID := uuid.New()

	// The other company already uses the SKU; the count is scoped per
	// company so this one sees zero.
	expectCompany(mockRepo, otherCompanyID)
	mockRepo.On("GetWarehouseByID", otherCompanyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: otherCompanyID}, nil)
	mockRepo.On("CountProductsBySKU", otherCompanyID, "WID-001").Return(int64(0), nil)
	mockRepo.On("CreateProductWithInitialStock", otherCompanyID, mock.AnythingOfType("*models.Product"), warehouseID, 0).Return(nil)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(otherCompanyID, models.CreateProductRequest{
		Name:        "Blue Widget",
		SKU:         "WID-001",
		WarehouseID: warehouseID,
	})

	assert.NoError(t, err)
	assert.NotNil(t, product)
}

func TestCreateProduct_WarehouseNotFound(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	warehouseID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(companyID, models.CreateProductRequest{
		Name:        "Blue Widget",
		SKU:         "WID-001",
		WarehouseID: warehouseID,
	})

	assert.ErrorIs(t, err, ErrWarehouseNotFound)
	assert.Nil(t, product)
	mockRepo.AssertNotCalled(t, "CountProductsBySKU", mock.Anything, mock.Anything)
}

func TestCreateProduct_SupplierNotFound(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	warehouseID := uuid.New()
	supplierID := uuid.New()

	expectCompany(mockRepo, companyID)
	mockRepo.On("GetWarehouseByID", companyID, warehouseID).Return(&models.Warehouse{ID: warehouseID, CompanyID: companyID}, nil)
	mockRepo.On("GetSupplierByID", companyID, supplierID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.CreateProduct(companyID, models.CreateProductRequest{
		Name:              "Blue Widget",
		SKU:               "WID-001",
		WarehouseID:       warehouseID,
		PrimarySupplierID: &supplierID,
	})

	assert.ErrorIs(t, err, ErrSupplierNotFound)
	assert.Nil(t, product)
}

func TestUpdateProduct_ThresholdOnly(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	threshold := 25

	mockRepo.On("UpdateProduct", companyID, productID, mock.MatchedBy(func(updates map[string]interface{}) bool {
		v, ok := updates["low_stock_threshold"]
		return ok && v == threshold && len(updates) == 1
	})).Return(nil)
	mockRepo.On("GetProductByID", companyID, productID).Return(&models.Product{
		ID: productID, CompanyID: companyID, LowStockThreshold: threshold,
	}, nil)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.UpdateProduct(companyID, productID, models.UpdateProductRequest{
		LowStockThreshold: &threshold,
	})

	assert.NoError(t, err)
	assert.Equal(t, threshold, product.LowStockThreshold)
	mockRepo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockInventoryRepository)
	companyID := uuid.New()
	productID := uuid.New()
	name := "Renamed"

	mockRepo.On("UpdateProduct", companyID, productID, mock.Anything).Return(gorm.ErrRecordNotFound)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.UpdateProduct(companyID, productID, models.UpdateProductRequest{Name: &name})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}
