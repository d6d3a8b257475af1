package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-api/internal/models"
)

// ========== Product Handlers ==========

// CreateProduct creates a new product with its initial stock row and, when
// the initial quantity is positive, an opening stock_in movement. The whole
// workflow commits or rolls back as one unit.
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.products.CreateProduct(companyID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product created successfully"),
	})
}

// GetProduct retrieves a product by ID
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "product")
	if !ok {
		return
	}

	product, err := h.repo.GetProductByID(companyID, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// ListProducts retrieves all products for a company
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	if !h.requireCompany(c, companyID) {
		return
	}

	page, limit := h.pagination(c)
	products, total, err := h.repo.ListProducts(companyID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: paginationMeta(page, limit, total),
	})
}

// UpdateProduct partially updates a product
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "product")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.products.UpdateProduct(companyID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product updated successfully"),
	})
}

// DeleteProduct soft deletes a product
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "product")
	if !ok {
		return
	}

	if err := h.repo.DeleteProduct(companyID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product deleted successfully"),
	})
}

// ========== Stock Handlers ==========

// ListStock retrieves inventory quantities for a company, optionally
// filtered by warehouse
func (h *InventoryHandler) ListStock(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	if !h.requireCompany(c, companyID) {
		return
	}

	var warehouseID *uuid.UUID
	if raw := c.Query("warehouseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid warehouse ID")
			return
		}
		warehouseID = &id
	}

	page, limit := h.pagination(c)
	inventory, total, err := h.repo.ListInventory(companyID, warehouseID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch stock levels")
		return
	}

	c.JSON(http.StatusOK, models.InventoryListResponse{
		Success:    true,
		Data:       inventory,
		Pagination: paginationMeta(page, limit, total),
	})
}

// ========== Movement Handlers ==========

// LogMovement appends a stock movement and applies its quantity change
func (h *InventoryHandler) LogMovement(c *gin.Context) {
	var req models.AppendMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	movement, err := h.movements.AppendMovement(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MovementResponse{
		Success: true,
		Data:    movement,
		Message: stringPtr("Stock movement recorded successfully"),
	})
}

// ListMovements retrieves the movement log for a company, optionally
// filtered by product and warehouse
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}
	if !h.requireCompany(c, companyID) {
		return
	}

	var productID, warehouseID *uuid.UUID
	if raw := c.Query("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
			return
		}
		productID = &id
	}
	if raw := c.Query("warehouseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid warehouse ID")
			return
		}
		warehouseID = &id
	}

	page, limit := h.pagination(c)
	movements, total, err := h.repo.ListMovements(companyID, productID, warehouseID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch stock movements")
		return
	}

	c.JSON(http.StatusOK, models.MovementListResponse{
		Success:    true,
		Data:       movements,
		Pagination: paginationMeta(page, limit, total),
	})
}
