package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant boundary. Every other row belongs to exactly one
// company and every repository query is scoped by company_id.
type Company struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Warehouse represents a storage location owned by a company
type Warehouse struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID uuid.UUID `json:"companyId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Location  *string   `json:"location,omitempty" gorm:"type:varchar(255)"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Supplier represents a product supplier for a company.
// A product may reference a single primary supplier; backup suppliers are
// intentionally not modeled.
type Supplier struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `json:"companyId" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	ContactEmail *string   `json:"contactEmail,omitempty" gorm:"type:varchar(255)"`
	ContactPhone *string   `json:"contactPhone,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Product represents a sellable item. SKU is unique within a company, not
// globally.
type Product struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID         uuid.UUID  `json:"companyId" gorm:"type:uuid;not null;index;uniqueIndex:idx_products_company_sku"`
	Name              string     `json:"name" gorm:"type:varchar(255);not null"`
	SKU               string     `json:"sku" gorm:"type:varchar(100);not null;uniqueIndex:idx_products_company_sku"`
	Price             float64    `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	LowStockThreshold int        `json:"lowStockThreshold" gorm:"not null;default:0"`
	PrimarySupplierID *uuid.UUID `json:"primarySupplierId,omitempty" gorm:"type:uuid;index"`

	PrimarySupplier *Supplier `json:"primarySupplier,omitempty" gorm:"foreignKey:PrimarySupplierID"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Inventory holds the current quantity for one (product, warehouse) pair.
// One row per pair; history lives in stock_movements, not here.
// Invariant: quantity never goes negative.
type Inventory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `json:"companyId" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_inventories_product_warehouse"`
	WarehouseID uuid.UUID `json:"warehouseId" gorm:"type:uuid;not null;uniqueIndex:idx_inventories_product_warehouse"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MovementReason tags why a stock quantity changed
type MovementReason string

const (
	MovementReasonStockIn    MovementReason = "stock_in"
	MovementReasonSale       MovementReason = "sale"
	MovementReasonTransfer   MovementReason = "transfer"
	MovementReasonAdjustment MovementReason = "adjustment"
)

// StockMovement is one entry in the append-only movement log. Entries are
// never updated or deleted; the log is the sole source of sales-velocity
// history.
type StockMovement struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `json:"companyId" gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID      `json:"productId" gorm:"type:uuid;not null;index:idx_stock_movements_pair"`
	WarehouseID    uuid.UUID      `json:"warehouseId" gorm:"type:uuid;not null;index:idx_stock_movements_pair"`
	QuantityChange int            `json:"quantityChange" gorm:"not null"`
	Reason         MovementReason `json:"reason" gorm:"type:varchar(20);not null;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

// TableName implementations
func (Company) TableName() string {
	return "companies"
}

func (Warehouse) TableName() string {
	return "warehouses"
}

func (Supplier) TableName() string {
	return "suppliers"
}

func (Product) TableName() string {
	return "products"
}

func (Inventory) TableName() string {
	return "inventories"
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// Request/Response models

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type CreateWarehouseRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	Location *string `json:"location,omitempty"`
}

type UpdateWarehouseRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Location *string `json:"location,omitempty"`
}

type CreateSupplierRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	ContactEmail *string `json:"contactEmail,omitempty" binding:"omitempty,email"`
	ContactPhone *string `json:"contactPhone,omitempty"`
}

type UpdateSupplierRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	ContactEmail *string `json:"contactEmail,omitempty" binding:"omitempty,email"`
	ContactPhone *string `json:"contactPhone,omitempty"`
}

// CreateProductRequest creates a product together with its initial inventory
// row and initial stock_in movement entry in one transaction.
type CreateProductRequest struct {
	Name              string     `json:"name" binding:"required,min=1,max=255"`
	SKU               string     `json:"sku" binding:"required,min=1,max=100"`
	Price             float64    `json:"price" binding:"gte=0"`
	LowStockThreshold int        `json:"lowStockThreshold" binding:"gte=0"`
	PrimarySupplierID *uuid.UUID `json:"primarySupplierId,omitempty"`
	WarehouseID       uuid.UUID  `json:"warehouseId" binding:"required"`
	InitialQuantity   int        `json:"initialQuantity" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name              *string    `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Price             *float64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	LowStockThreshold *int       `json:"lowStockThreshold,omitempty" binding:"omitempty,gte=0"`
	PrimarySupplierID *uuid.UUID `json:"primarySupplierId,omitempty"`
}

// AppendMovementRequest appends one entry to the movement log and applies the
// quantity change to the matching inventory row.
type AppendMovementRequest struct {
	CompanyID      uuid.UUID      `json:"companyId" binding:"required"`
	ProductID      uuid.UUID      `json:"productId" binding:"required"`
	WarehouseID    uuid.UUID      `json:"warehouseId" binding:"required"`
	QuantityChange int            `json:"quantityChange" binding:"required"`
	Reason         MovementReason `json:"reason" binding:"required,oneof=stock_in sale transfer adjustment"`
}

// SupplierSummary is the supplier slice attached to a low-stock alert
type SupplierSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contactEmail,omitempty"`
	ContactPhone *string   `json:"contactPhone,omitempty"`
}

// LowStockAlert is one computed alert for an at-risk (product, warehouse)
// pair. DaysUntilStockout is nil when no projection is possible.
type LowStockAlert struct {
	ProductID         uuid.UUID        `json:"productId"`
	ProductName       string           `json:"productName"`
	SKU               string           `json:"sku"`
	WarehouseID       uuid.UUID        `json:"warehouseId"`
	WarehouseName     string           `json:"warehouseName"`
	CurrentQuantity   int              `json:"currentQuantity"`
	Threshold         int              `json:"threshold"`
	AvgDailySales     float64          `json:"avgDailySales"`
	DaysUntilStockout *int             `json:"daysUntilStockout"`
	Supplier          *SupplierSummary `json:"supplier"`
}

// Response models

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type CompanyResponse struct {
	Success bool     `json:"success"`
	Data    *Company `json:"data,omitempty"`
	Message *string  `json:"message,omitempty"`
}

type WarehouseResponse struct {
	Success bool       `json:"success"`
	Data    *Warehouse `json:"data,omitempty"`
	Message *string    `json:"message,omitempty"`
}

type WarehouseListResponse struct {
	Success    bool            `json:"success"`
	Data       []Warehouse     `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type SupplierResponse struct {
	Success bool      `json:"success"`
	Data    *Supplier `json:"data,omitempty"`
	Message *string   `json:"message,omitempty"`
}

type SupplierListResponse struct {
	Success    bool            `json:"success"`
	Data       []Supplier      `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data,omitempty"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type InventoryListResponse struct {
	Success    bool            `json:"success"`
	Data       []Inventory     `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type MovementResponse struct {
	Success bool           `json:"success"`
	Data    *StockMovement `json:"data,omitempty"`
	Message *string        `json:"message,omitempty"`
}

type MovementListResponse struct {
	Success    bool            `json:"success"`
	Data       []StockMovement `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type LowStockAlertResponse struct {
	Success bool            `json:"success"`
	Data    []LowStockAlert `json:"alerts"`
	Count   int             `json:"count"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}
