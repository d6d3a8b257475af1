package services

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"inventory-api/internal/models"
	"inventory-api/internal/repository"
)

// MovementService appends entries to the movement log after verifying that
// product and warehouse exist and belong to the claimed company
type MovementService struct {
	repo   repository.InventoryRepositoryInterface
	logger *logrus.Entry
}

func NewMovementService(repo repository.InventoryRepositoryInterface, logger *logrus.Logger) *MovementService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MovementService{
		repo:   repo,
		logger: logger.WithField("component", "movement-service"),
	}
}

// AppendMovement validates the references and appends the log entry. The
// quantity change is applied to the inventory row in the same transaction;
// a change that would drive quantity below zero is rejected before anything
// is written.
func (s *MovementService) AppendMovement(req models.AppendMovementRequest) (*models.StockMovement, error) {
	// A positive sale would raise stock while still counting toward sales
	// velocity; a negative stock_in is an outflow in disguise
	switch req.Reason {
	case models.MovementReasonSale:
		if req.QuantityChange > 0 {
			return nil, ErrInvalidMovement
		}
	case models.MovementReasonStockIn:
		if req.QuantityChange < 0 {
			return nil, ErrInvalidMovement
		}
	}

	if _, err := s.repo.GetCompanyByID(req.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetProductByID(req.CompanyID, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetWarehouseByID(req.CompanyID, req.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	movement := &models.StockMovement{
		ProductID:      req.ProductID,
		WarehouseID:    req.WarehouseID,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
	}

	if err := s.repo.AppendMovement(req.CompanyID, movement); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"companyId":      req.CompanyID,
		"productId":      req.ProductID,
		"warehouseId":    req.WarehouseID,
		"quantityChange": req.QuantityChange,
		"reason":         req.Reason,
	}).Debug("Movement appended")

	return movement, nil
}
