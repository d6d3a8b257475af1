package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory-api/internal/models"
	"inventory-api/internal/repository"
	"inventory-api/internal/services"
)

type InventoryHandler struct {
	repo      *repository.InventoryRepository
	products  *services.ProductService
	movements *services.MovementService
	alerts    services.AlertComputer

	defaultPageSize int
	maxPageSize     int
}

func NewInventoryHandler(repo *repository.InventoryRepository, products *services.ProductService, movements *services.MovementService, alerts services.AlertComputer, defaultPageSize, maxPageSize int) *InventoryHandler {
	return &InventoryHandler{
		repo:            repo,
		products:        products,
		movements:       movements,
		alerts:          alerts,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// parseCompanyID parses the :companyId path parameter, writing a 400 response
// on failure
func parseCompanyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid company ID",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

// parsePathID parses the :id path parameter, writing a 400 response on failure
func parsePathID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid " + label + " ID",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

// pagination extracts page/limit query parameters, bounded by the configured
// default and maximum page sizes
func (h *InventoryHandler) pagination(c *gin.Context) (int, int) {
	defaultSize := h.defaultPageSize
	if defaultSize < 1 {
		defaultSize = 20
	}
	maxSize := h.maxPageSize
	if maxSize < 1 {
		maxSize = 100
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSize
	}
	if limit > maxSize {
		limit = maxSize
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) *models.PaginationMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// respondServiceError translates service-layer errors into the error
// taxonomy: validation 400, not found 404, conflict 409, everything else a
// generic 500 with detail kept out of the response body.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCompanyNotFound):
		respondError(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found")
	case errors.Is(err, services.ErrWarehouseNotFound):
		respondError(c, http.StatusNotFound, "WAREHOUSE_NOT_FOUND", "Warehouse not found for this company")
	case errors.Is(err, services.ErrSupplierNotFound):
		respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found for this company")
	case errors.Is(err, services.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found for this company")
	case errors.Is(err, services.ErrDuplicateSKU):
		respondError(c, http.StatusConflict, "DUPLICATE_SKU", "A product with this SKU already exists for this company")
	case errors.Is(err, services.ErrInsufficientStock):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", "Movement would drive inventory quantity below zero")
	case errors.Is(err, services.ErrInvalidMovement):
		respondError(c, http.StatusBadRequest, "INVALID_MOVEMENT", "Quantity change sign does not match the movement reason")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

func stringPtr(s string) *string {
	return &s
}

// ========== Company Handlers ==========

// CreateCompany creates a new company
func (h *InventoryHandler) CreateCompany(c *gin.Context) {
	var req models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	company := &models.Company{Name: req.Name}
	if err := h.repo.CreateCompany(company); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, models.CompanyResponse{
		Success: true,
		Data:    company,
		Message: stringPtr("Company created successfully"),
	})
}

// GetCompany retrieves a company by ID
func (h *InventoryHandler) GetCompany(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}

	company, err := h.repo.GetCompanyByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
		return
	}

	c.JSON(http.StatusOK, models.CompanyResponse{
		Success: true,
		Data:    company,
	})
}

// requireCompany verifies the company exists before a nested-resource
// operation, writing the error response on failure
func (h *InventoryHandler) requireCompany(c *gin.Context, companyID uuid.UUID) bool {
	if _, err := h.repo.GetCompanyByID(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
		}
		return false
	}
	return true
}

// ========== Warehouse Handlers ==========

// CreateWarehouse creates a new warehouse for a company
func (h *InventoryHandler) CreateWarehouse(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}

	var req models.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if !h.requireCompany(c, companyID) {
		return
	}

	warehouse := &models.Warehouse{
		Name:     req.Name,
		Location: req.Location,
	}

	if err := h.repo.CreateWarehouse(companyID, warehouse); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create warehouse")
		return
	}

	c.JSON(http.StatusCreated, models.WarehouseResponse{
		Success: true,
		Data:    warehouse,
		Message: stringPtr("Warehouse created successfully"),
	})
}

// GetWarehouse retrieves a warehouse by ID
func (h *InventoryHandler) GetWarehouse(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "warehouse")
	if !ok {
		return
	}

	warehouse, err := h.repo.GetWarehouseByID(companyID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
		return
	}

	c.JSON(http.StatusOK, models.WarehouseResponse{
		Success: true,
		Data:    warehouse,
	})
}

// ListWarehouses retrieves all warehouses for a company
func (h *InventoryHandler) ListWarehouses(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	if !h.requireCompany(c, companyID) {
		return
	}

	page, limit := h.pagination(c)
	warehouses, total, err := h.repo.ListWarehouses(companyID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch warehouses")
		return
	}

	c.JSON(http.StatusOK, models.WarehouseListResponse{
		Success:    true,
		Data:       warehouses,
		Pagination: paginationMeta(page, limit, total),
	})
}

// UpdateWarehouse updates a warehouse
func (h *InventoryHandler) UpdateWarehouse(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "warehouse")
	if !ok {
		return
	}

	var req models.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateWarehouse(companyID, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update warehouse")
			return
		}
	}

	warehouse, err := h.repo.GetWarehouseByID(companyID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
		return
	}

	c.JSON(http.StatusOK, models.WarehouseResponse{
		Success: true,
		Data:    warehouse,
		Message: stringPtr("Warehouse updated successfully"),
	})
}

// DeleteWarehouse soft deletes a warehouse
func (h *InventoryHandler) DeleteWarehouse(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "warehouse")
	if !ok {
		return
	}

	if err := h.repo.DeleteWarehouse(companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete warehouse")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Warehouse deleted successfully"),
	})
}

// ========== Supplier Handlers ==========

// CreateSupplier creates a new supplier for a company
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}

	var req models.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if !h.requireCompany(c, companyID) {
		return
	}

	supplier := &models.Supplier{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}

	if err := h.repo.CreateSupplier(companyID, supplier); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, models.SupplierResponse{
		Success: true,
		Data:    supplier,
		Message: stringPtr("Supplier created successfully"),
	})
}

// GetSupplier retrieves a supplier by ID
func (h *InventoryHandler) GetSupplier(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplier")
	if !ok {
		return
	}

	supplier, err := h.repo.GetSupplierByID(companyID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found")
		return
	}

	c.JSON(http.StatusOK, models.SupplierResponse{
		Success: true,
		Data:    supplier,
	})
}

// ListSuppliers retrieves all suppliers for a company
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	if !h.requireCompany(c, companyID) {
		return
	}

	page, limit := h.pagination(c)
	suppliers, total, err := h.repo.ListSuppliers(companyID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch suppliers")
		return
	}

	c.JSON(http.StatusOK, models.SupplierListResponse{
		Success:    true,
		Data:       suppliers,
		Pagination: paginationMeta(page, limit, total),
	})
}

// UpdateSupplier updates a supplier
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplier")
	if !ok {
		return
	}

	var req models.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateSupplier(companyID, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update supplier")
			return
		}
	}

	supplier, err := h.repo.GetSupplierByID(companyID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found")
		return
	}

	c.JSON(http.StatusOK, models.SupplierResponse{
		Success: true,
		Data:    supplier,
		Message: stringPtr("Supplier updated successfully"),
	})
}

// DeleteSupplier soft deletes a supplier
func (h *InventoryHandler) DeleteSupplier(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplier")
	if !ok {
		return
	}

	if err := h.repo.DeleteSupplier(companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete supplier")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Supplier deleted successfully"),
	})
}
