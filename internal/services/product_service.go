package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"inventory-api/internal/models"
	"inventory-api/internal/repository"
)

// ProductService owns the product-creation workflow and product mutation.
// Every referenced warehouse/supplier is verified to belong to the same
// company before anything is written; cross-tenant references surface as
// not-found.
type ProductService struct {
	repo   repository.InventoryRepositoryInterface
	logger *logrus.Entry
}

func NewProductService(repo repository.InventoryRepositoryInterface, logger *logrus.Logger) *ProductService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProductService{
		repo:   repo,
		logger: logger.WithField("component", "product-service"),
	}
}

// CreateProduct runs the atomic creation workflow: validate references,
// then create the product + initial inventory row + initial movement entry
// in a single transaction.
func (s *ProductService) CreateProduct(companyID uuid.UUID, req models.CreateProductRequest) (*models.Product, error) {
	if _, err := s.repo.GetCompanyByID(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetWarehouseByID(companyID, req.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	if req.PrimarySupplierID != nil {
		if _, err := s.repo.GetSupplierByID(companyID, *req.PrimarySupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, err
		}
	}

	count, err := s.repo.CountProductsBySKU(companyID, req.SKU)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateSKU
	}

	product := &models.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
		PrimarySupplierID: req.PrimarySupplierID,
	}

	if err := s.repo.CreateProductWithInitialStock(companyID, product, req.WarehouseID, req.InitialQuantity); err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"companyId": companyID,
		"productId": product.ID,
		"sku":       product.SKU,
	}).Info("Product created with initial stock")

	return product, nil
}

// UpdateProduct applies a partial update to a product's name, price,
// threshold, or primary supplier
func (s *ProductService) UpdateProduct(companyID, productID uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.PrimarySupplierID != nil {
		if _, err := s.repo.GetSupplierByID(companyID, *req.PrimarySupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, err
		}
		updates["primary_supplier_id"] = *req.PrimarySupplierID
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(companyID, productID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
	}

	product, err := s.repo.GetProductByID(companyID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
