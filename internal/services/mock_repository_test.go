package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inventory-api/internal/models"
	"inventory-api/internal/repository"
)

// MockInventoryRepository is a mock implementation of InventoryRepositoryInterface
type MockInventoryRepository struct {
	mock.Mock
}

// Ensure MockInventoryRepository implements the interface
var _ repository.InventoryRepositoryInterface = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) GetCompanyByID(id uuid.UUID) (*models.Company, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockInventoryRepository) GetWarehouseByID(companyID, id uuid.UUID) (*models.Warehouse, error) {
	args := m.Called(companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockInventoryRepository) GetSupplierByID(companyID, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockInventoryRepository) GetProductByID(companyID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockInventoryRepository) CountProductsBySKU(companyID uuid.UUID, sku string) (int64, error) {
	args := m.Called(companyID, sku)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) CreateProductWithInitialStock(companyID uuid.UUID, product *models.Product, warehouseID uuid.UUID, initialQuantity int) error {
	args := m.Called(companyID, product, warehouseID, initialQuantity)
	if args.Error(0) == nil {
		product.ID = uuid.New()
		product.CompanyID = companyID
		product.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateProduct(companyID, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(companyID, id, updates)
	return args.Error(0)
}

func (m *MockInventoryRepository) AppendMovement(companyID uuid.UUID, movement *models.StockMovement) error {
	args := m.Called(companyID, movement)
	if args.Error(0) == nil {
		movement.ID = uuid.New()
		movement.CompanyID = companyID
		movement.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockInventoryRepository) ListAtRiskInventory(companyID uuid.UUID) ([]repository.AtRiskRow, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AtRiskRow), args.Error(1)
}

func (m *MockInventoryRepository) AggregateSales(companyID uuid.UUID, pairs []repository.PairKey, since time.Time) ([]repository.SalesAggregate, error) {
	args := m.Called(companyID, pairs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SalesAggregate), args.Error(1)
}

func (m *MockInventoryRepository) GetCachedLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, bool) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.LowStockAlert), args.Bool(1)
}

func (m *MockInventoryRepository) CacheLowStockAlerts(ctx context.Context, companyID uuid.UUID, alerts []models.LowStockAlert) {
	m.Called(ctx, companyID, alerts)
}
