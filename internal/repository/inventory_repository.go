package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inventory-api/internal/models"
)

// Cache TTL constants
const (
	LowStockCacheTTL  = 1 * time.Minute  // Alert results - needs to be fresh
	StockListCacheTTL = 2 * time.Minute  // Stock list cache - changes on every movement
	CompanyCacheTTL   = 30 * time.Minute // Companies rarely change
)

const cacheKeyPrefix = "inventory:"

var (
	// ErrDuplicateSKU is returned when a product SKU already exists within
	// the same company.
	ErrDuplicateSKU = errors.New("duplicate SKU for company")
	// ErrInsufficientStock is returned when a movement would drive an
	// inventory quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock for movement")
)

// PairKey identifies one (product, warehouse) inventory pair
type PairKey struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
}

// AtRiskRow is one inventory row at or below its product's threshold, joined
// with the product/warehouse/supplier metadata the alert response needs.
type AtRiskRow struct {
	ProductID     uuid.UUID  `gorm:"column:product_id"`
	WarehouseID   uuid.UUID  `gorm:"column:warehouse_id"`
	Quantity      int        `gorm:"column:quantity"`
	Threshold     int        `gorm:"column:threshold"`
	ProductName   string     `gorm:"column:product_name"`
	ProductSKU    string     `gorm:"column:product_sku"`
	WarehouseName string     `gorm:"column:warehouse_name"`
	SupplierID    *uuid.UUID `gorm:"column:supplier_id"`
	SupplierName  *string    `gorm:"column:supplier_name"`
	SupplierEmail *string    `gorm:"column:supplier_email"`
	SupplierPhone *string    `gorm:"column:supplier_phone"`
}

// SalesAggregate is the grouped sales history for one pair over the lookback
// window: total units sold and the earliest sale timestamp.
type SalesAggregate struct {
	ProductID    uuid.UUID `gorm:"column:product_id"`
	WarehouseID  uuid.UUID `gorm:"column:warehouse_id"`
	TotalSold    int       `gorm:"column:total_sold"`
	EarliestSale time.Time `gorm:"column:earliest_sale"`
}

// InventoryRepositoryInterface is the repository surface consumed by the
// service layer. Kept as an interface so services can be tested against mocks.
type InventoryRepositoryInterface interface {
	GetCompanyByID(id uuid.UUID) (*models.Company, error)
	GetWarehouseByID(companyID, id uuid.UUID) (*models.Warehouse, error)
	GetSupplierByID(companyID, id uuid.UUID) (*models.Supplier, error)
	GetProductByID(companyID, id uuid.UUID) (*models.Product, error)
	CountProductsBySKU(companyID uuid.UUID, sku string) (int64, error)
	CreateProductWithInitialStock(companyID uuid.UUID, product *models.Product, warehouseID uuid.UUID, initialQuantity int) error
	UpdateProduct(companyID, id uuid.UUID, updates map[string]interface{}) error
	AppendMovement(companyID uuid.UUID, movement *models.StockMovement) error
	ListAtRiskInventory(companyID uuid.UUID) ([]AtRiskRow, error)
	AggregateSales(companyID uuid.UUID, pairs []PairKey, since time.Time) ([]SalesAggregate, error)
	GetCachedLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, bool)
	CacheLowStockAlerts(ctx context.Context, companyID uuid.UUID, alerts []models.LowStockAlert)
}

type InventoryRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

var _ InventoryRepositoryInterface = (*InventoryRepository)(nil)

func NewInventoryRepository(db *gorm.DB, redisClient *redis.Client) *InventoryRepository {
	return &InventoryRepository{
		db:    db,
		redis: redisClient,
	}
}

// generateLowStockCacheKey creates a cache key for a company's alert list
func generateLowStockCacheKey(companyID uuid.UUID) string {
	return fmt.Sprintf("%salerts:low:%s", cacheKeyPrefix, companyID.String())
}

// invalidateCompanyStockCaches drops cached alert and stock reads for a
// company. Called after every mutation that can change alert output.
func (r *InventoryRepository) invalidateCompanyStockCaches(ctx context.Context, companyID uuid.UUID) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, generateLowStockCacheKey(companyID)).Err()

	iter := r.redis.Scan(ctx, 0, fmt.Sprintf("%sstock:list:%s:*", cacheKeyPrefix, companyID.String()), 100).Iterator()
	for iter.Next(ctx) {
		_ = r.redis.Del(ctx, iter.Val()).Err()
	}
}

// RedisHealth returns the health status of the Redis connection
func (r *InventoryRepository) RedisHealth(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return r.redis.Ping(ctx).Err()
}

// ========== Company Operations ==========

// CreateCompany creates a new company
func (r *InventoryRepository) CreateCompany(company *models.Company) error {
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	return r.db.Create(company).Error
}

// GetCompanyByID retrieves a company by ID
func (r *InventoryRepository) GetCompanyByID(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.Where("id = ?", id).First(&company).Error
	return &company, err
}

// ========== Warehouse Operations ==========

// CreateWarehouse creates a new warehouse
func (r *InventoryRepository) CreateWarehouse(companyID uuid.UUID, warehouse *models.Warehouse) error {
	warehouse.CompanyID = companyID
	warehouse.CreatedAt = time.Now()
	warehouse.UpdatedAt = time.Now()
	return r.db.Create(warehouse).Error
}

// GetWarehouseByID retrieves a warehouse by ID scoped to a company
func (r *InventoryRepository) GetWarehouseByID(companyID, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.Where("company_id = ? AND id = ?", companyID, id).
		First(&warehouse).Error
	return &warehouse, err
}

// ListWarehouses retrieves all warehouses for a company with pagination
func (r *InventoryRepository) ListWarehouses(companyID uuid.UUID, page, limit int) ([]models.Warehouse, int64, error) {
	var warehouses []models.Warehouse
	var total int64
	query := r.db.Where("company_id = ?", companyID)

	if err := query.Model(&models.Warehouse{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("name ASC").Find(&warehouses).Error
	return warehouses, total, err
}

// UpdateWarehouse updates a warehouse
func (r *InventoryRepository) UpdateWarehouse(companyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Warehouse{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWarehouse soft deletes a warehouse
func (r *InventoryRepository) DeleteWarehouse(companyID, id uuid.UUID) error {
	result := r.db.Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.Warehouse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ========== Supplier Operations ==========

// CreateSupplier creates a new supplier
func (r *InventoryRepository) CreateSupplier(companyID uuid.UUID, supplier *models.Supplier) error {
	supplier.CompanyID = companyID
	supplier.CreatedAt = time.Now()
	supplier.UpdatedAt = time.Now()
	return r.db.Create(supplier).Error
}

// GetSupplierByID retrieves a supplier by ID scoped to a company
func (r *InventoryRepository) GetSupplierByID(companyID, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.Where("company_id = ? AND id = ?", companyID, id).
		First(&supplier).Error
	return &supplier, err
}

// ListSuppliers retrieves all suppliers for a company with pagination
func (r *InventoryRepository) ListSuppliers(companyID uuid.UUID, page, limit int) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64
	query := r.db.Where("company_id = ?", companyID)

	if err := query.Model(&models.Supplier{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("name ASC").Find(&suppliers).Error
	return suppliers, total, err
}

// UpdateSupplier updates a supplier
func (r *InventoryRepository) UpdateSupplier(companyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Supplier{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteSupplier soft deletes a supplier
func (r *InventoryRepository) DeleteSupplier(companyID, id uuid.UUID) error {
	result := r.db.Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.Supplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ========== Product Operations ==========

// CountProductsBySKU counts products with the given SKU within a company,
// including soft-deleted rows since the unique index still covers them.
func (r *InventoryRepository) CountProductsBySKU(companyID uuid.UUID, sku string) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Product{}).
		Where("company_id = ? AND sku = ?", companyID, sku).
		Count(&count).Error
	return count, err
}

// CreateProductWithInitialStock creates the product, its initial inventory
// row, and the initial stock_in movement entry in one transaction. Any
// failure rolls the whole workflow back; a product row is never persisted
// without its inventory row.
func (r *InventoryRepository) CreateProductWithInitialStock(companyID uuid.UUID, product *models.Product, warehouseID uuid.UUID, initialQuantity int) error {
	product.CompanyID = companyID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Proactive duplicate check inside the transaction
		var existingCount int64
		if err := tx.Unscoped().Model(&models.Product{}).
			Where("company_id = ? AND sku = ?", companyID, product.SKU).
			Count(&existingCount).Error; err != nil {
			return err
		}
		if existingCount > 0 {
			return ErrDuplicateSKU
		}

		if err := tx.Create(product).Error; err != nil {
			// Reactive check: a concurrent insert can still hit the
			// unique index between the count and the create
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSKU
			}
			return err
		}

		inventory := models.Inventory{
			CompanyID:   companyID,
			ProductID:   product.ID,
			WarehouseID: warehouseID,
			Quantity:    initialQuantity,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := tx.Create(&inventory).Error; err != nil {
			return err
		}

		if initialQuantity > 0 {
			movement := models.StockMovement{
				CompanyID:      companyID,
				ProductID:      product.ID,
				WarehouseID:    warehouseID,
				QuantityChange: initialQuantity,
				Reason:         models.MovementReasonStockIn,
				CreatedAt:      time.Now(),
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err == nil {
		r.invalidateCompanyStockCaches(context.Background(), companyID)
	}

	return err
}

// GetProductByID retrieves a product by ID scoped to a company
func (r *InventoryRepository) GetProductByID(companyID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("company_id = ? AND id = ?", companyID, id).
		Preload("PrimarySupplier").
		First(&product).Error
	return &product, err
}

// ListProducts retrieves all products for a company with pagination
func (r *InventoryRepository) ListProducts(companyID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	query := r.db.Where("company_id = ?", companyID)

	if err := query.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Preload("PrimarySupplier").Order("name ASC").Find(&products).Error
	return products, total, err
}

// UpdateProduct updates a product and invalidates alert caches since the
// threshold may have changed
func (r *InventoryRepository) UpdateProduct(companyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Product{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCompanyStockCaches(context.Background(), companyID)
	return nil
}

// DeleteProduct soft deletes a product
func (r *InventoryRepository) DeleteProduct(companyID, id uuid.UUID) error {
	result := r.db.Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCompanyStockCaches(context.Background(), companyID)
	return nil
}

// ========== Inventory Operations ==========

// ListInventory retrieves inventory rows for a company with pagination,
// optionally filtered by warehouse
func (r *InventoryRepository) ListInventory(companyID uuid.UUID, warehouseID *uuid.UUID, page, limit int) ([]models.Inventory, int64, error) {
	var rows []models.Inventory
	var total int64
	query := r.db.Where("company_id = ?", companyID)

	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	if err := query.Model(&models.Inventory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("product_id ASC").Find(&rows).Error
	return rows, total, err
}

// ========== Movement Log Operations ==========

// AppendMovement appends one movement-log entry and applies the quantity
// change to the matching inventory row in the same transaction. The quantity
// update is conditional: it only fires when the resulting quantity stays
// non-negative, which holds the quantity >= 0 invariant under concurrent
// writers without a separate lock.
func (r *InventoryRepository) AppendMovement(companyID uuid.UUID, movement *models.StockMovement) error {
	movement.CompanyID = companyID
	movement.CreatedAt = time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Inventory{}).
			Where("company_id = ? AND product_id = ? AND warehouse_id = ? AND quantity + ? >= 0",
				companyID, movement.ProductID, movement.WarehouseID, movement.QuantityChange).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", movement.QuantityChange),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Either the inventory row does not exist yet, or the change
			// would drive quantity negative
			var existingCount int64
			if err := tx.Model(&models.Inventory{}).
				Where("company_id = ? AND product_id = ? AND warehouse_id = ?",
					companyID, movement.ProductID, movement.WarehouseID).
				Count(&existingCount).Error; err != nil {
				return err
			}

			if existingCount > 0 || movement.QuantityChange < 0 {
				return ErrInsufficientStock
			}

			// First inflow for this pair creates the inventory row
			inventory := models.Inventory{
				CompanyID:   companyID,
				ProductID:   movement.ProductID,
				WarehouseID: movement.WarehouseID,
				Quantity:    movement.QuantityChange,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := tx.Create(&inventory).Error; err != nil {
				return err
			}
		}

		return tx.Create(movement).Error
	})

	if err == nil {
		r.invalidateCompanyStockCaches(context.Background(), companyID)
	}

	return err
}

// ListMovements retrieves movement-log entries for a company with pagination,
// optionally filtered by product and warehouse. Read-only: the log has no
// update or delete path.
func (r *InventoryRepository) ListMovements(companyID uuid.UUID, productID, warehouseID *uuid.UUID, page, limit int) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	var total int64
	query := r.db.Where("company_id = ?", companyID)

	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	if err := query.Model(&models.StockMovement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&movements).Error
	return movements, total, err
}

// ========== Alert Engine Reads ==========

// ListAtRiskInventory selects every inventory row at or below its product's
// threshold (inclusive comparison) joined with the metadata the alert
// response needs. Supplier columns are NULL when the product has no primary
// supplier.
func (r *InventoryRepository) ListAtRiskInventory(companyID uuid.UUID) ([]AtRiskRow, error) {
	var rows []AtRiskRow
	err := r.db.Model(&models.Inventory{}).
		Select(`inventories.product_id, inventories.warehouse_id, inventories.quantity,
			products.low_stock_threshold AS threshold,
			products.name AS product_name, products.sku AS product_sku,
			warehouses.name AS warehouse_name,
			suppliers.id AS supplier_id, suppliers.name AS supplier_name,
			suppliers.contact_email AS supplier_email, suppliers.contact_phone AS supplier_phone`).
		Joins("JOIN products ON products.id = inventories.product_id AND products.deleted_at IS NULL").
		Joins("JOIN warehouses ON warehouses.id = inventories.warehouse_id AND warehouses.deleted_at IS NULL").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.primary_supplier_id AND suppliers.deleted_at IS NULL").
		Where("inventories.company_id = ? AND inventories.quantity <= products.low_stock_threshold", companyID).
		Order("inventories.quantity ASC").
		Scan(&rows).Error
	return rows, err
}

// AggregateSales computes, in one grouped query for the whole pair set, the
// total units sold and earliest sale timestamp per (product, warehouse) pair
// since the given time. One query regardless of pair count; never one query
// per pair.
func (r *InventoryRepository) AggregateSales(companyID uuid.UUID, pairs []PairKey, since time.Time) ([]SalesAggregate, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	tuples := make([][]interface{}, 0, len(pairs))
	for _, pair := range pairs {
		tuples = append(tuples, []interface{}{pair.ProductID, pair.WarehouseID})
	}

	var aggregates []SalesAggregate
	err := r.db.Model(&models.StockMovement{}).
		Select(`product_id, warehouse_id,
			SUM(ABS(quantity_change)) AS total_sold,
			MIN(created_at) AS earliest_sale`).
		Where("company_id = ? AND reason = ? AND created_at >= ?",
			companyID, models.MovementReasonSale, since).
		Where("(product_id, warehouse_id) IN ?", tuples).
		Group("product_id, warehouse_id").
		Scan(&aggregates).Error
	return aggregates, err
}

// ========== Alert Cache ==========

// GetCachedLowStockAlerts returns the cached alert list for a company, if
// present and fresh
func (r *InventoryRepository) GetCachedLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, bool) {
	if r.redis == nil {
		return nil, false
	}

	val, err := r.redis.Get(ctx, generateLowStockCacheKey(companyID)).Result()
	if err != nil {
		return nil, false
	}

	var alerts []models.LowStockAlert
	if err := json.Unmarshal([]byte(val), &alerts); err != nil {
		return nil, false
	}
	return alerts, true
}

// CacheLowStockAlerts stores the computed alert list for a company.
// Best-effort: cache failures are ignored.
func (r *InventoryRepository) CacheLowStockAlerts(ctx context.Context, companyID uuid.UUID, alerts []models.LowStockAlert) {
	if r.redis == nil {
		return
	}

	data, err := json.Marshal(alerts)
	if err != nil {
		return
	}
	_ = r.redis.Set(ctx, generateLowStockCacheKey(companyID), data, LowStockCacheTTL).Err()
}
