package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"inventory-api/internal/events"
	"inventory-api/internal/models"
	"inventory-api/internal/repository"
)

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("a product with this SKU already exists for the company")
	ErrInsufficientStock = errors.New("movement would drive inventory quantity below zero")
	ErrInvalidMovement   = errors.New("quantity change sign does not match movement reason")
)

// SalesLookbackDays is the velocity observation window
const SalesLookbackDays = 60

// AlertPolicy decides whether a pair with the given sales total produces an
// alert at all. Swapping the policy never touches aggregation or projection.
type AlertPolicy func(totalUnitsSold int) bool

// SuppressZeroSignal drops pairs with no sales in the window. New or seasonal
// products therefore never alert, however low their stock. Kept as a named
// policy rather than inlined so a replacement can swap in without touching
// the engine.
func SuppressZeroSignal(totalUnitsSold int) bool {
	return totalUnitsSold > 0
}

// AlertComputer is the alert-engine surface consumed by handlers
type AlertComputer interface {
	ComputeLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, error)
}

// lowStockPublisher is the event-publishing surface the alert engine needs
type lowStockPublisher interface {
	PublishLowStockAlert(ctx context.Context, companyID uuid.UUID, alert models.LowStockAlert) error
}

// AlertService computes low-stock alerts: it selects at-risk inventory rows,
// batches the sales-velocity lookup, projects days until stockout, and
// assembles the alert list. Read-only; holds no locks.
type AlertService struct {
	repo      repository.InventoryRepositoryInterface
	publisher lowStockPublisher
	policy    AlertPolicy
	now       func() time.Time
	logger    *logrus.Entry
}

func NewAlertService(repo repository.InventoryRepositoryInterface, publisher *events.Publisher, logger *logrus.Logger) *AlertService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	svc := &AlertService{
		repo:   repo,
		policy: SuppressZeroSignal,
		now:    time.Now,
		logger: logger.WithField("component", "alert-service"),
	}
	if publisher != nil {
		svc.publisher = publisher
	}
	return svc
}

// ComputeLowStockAlerts returns every alert for a company's at-risk
// (product, warehouse) pairs. Unknown company is an error, not an empty
// result.
func (s *AlertService) ComputeLowStockAlerts(ctx context.Context, companyID uuid.UUID) ([]models.LowStockAlert, error) {
	if _, err := s.repo.GetCompanyByID(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if cached, ok := s.repo.GetCachedLowStockAlerts(ctx, companyID); ok {
		return cached, nil
	}

	atRisk, err := s.repo.ListAtRiskInventory(companyID)
	if err != nil {
		return nil, err
	}

	alerts := make([]models.LowStockAlert, 0, len(atRisk))
	if len(atRisk) == 0 {
		s.repo.CacheLowStockAlerts(ctx, companyID, alerts)
		return alerts, nil
	}

	now := s.now()
	since := now.AddDate(0, 0, -SalesLookbackDays)

	pairs := make([]repository.PairKey, 0, len(atRisk))
	for _, row := range atRisk {
		pairs = append(pairs, repository.PairKey{ProductID: row.ProductID, WarehouseID: row.WarehouseID})
	}

	// One grouped aggregation for the whole pair set
	aggregates, err := s.repo.AggregateSales(companyID, pairs, since)
	if err != nil {
		return nil, err
	}

	salesByPair := make(map[repository.PairKey]repository.SalesAggregate, len(aggregates))
	for _, agg := range aggregates {
		salesByPair[repository.PairKey{ProductID: agg.ProductID, WarehouseID: agg.WarehouseID}] = agg
	}

	for _, row := range atRisk {
		agg, hasSales := salesByPair[repository.PairKey{ProductID: row.ProductID, WarehouseID: row.WarehouseID}]
		if !hasSales || !s.policy(agg.TotalSold) {
			continue
		}

		observedDays := observedDays(agg.EarliestSale, now)
		avgDailySales := float64(agg.TotalSold) / float64(observedDays)

		alert := models.LowStockAlert{
			ProductID:         row.ProductID,
			ProductName:       row.ProductName,
			SKU:               row.ProductSKU,
			WarehouseID:       row.WarehouseID,
			WarehouseName:     row.WarehouseName,
			CurrentQuantity:   row.Quantity,
			Threshold:         row.Threshold,
			AvgDailySales:     avgDailySales,
			DaysUntilStockout: projectDaysUntilStockout(row.Quantity, avgDailySales),
			Supplier:          supplierSummary(row),
		}
		alerts = append(alerts, alert)
	}

	s.repo.CacheLowStockAlerts(ctx, companyID, alerts)

	// Detached from the request context so a slow broker never stalls the
	// response
	go s.publishAlerts(context.Background(), companyID, alerts)

	return alerts, nil
}

// observedDays is the number of days between the earliest sale in the window
// and now, rounded up, with a floor of one day so a sale made today cannot
// produce a zero divisor.
func observedDays(earliestSale, now time.Time) int {
	days := int(math.Ceil(now.Sub(earliestSale).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// projectDaysUntilStockout projects how many days the current quantity lasts
// at the average daily sales rate. Nil when no projection is possible; never
// negative.
func projectDaysUntilStockout(quantity int, avgDailySales float64) *int {
	if avgDailySales <= 0 {
		return nil
	}
	days := int(math.Floor(float64(quantity) / avgDailySales))
	if days < 0 {
		days = 0
	}
	return &days
}

func supplierSummary(row repository.AtRiskRow) *models.SupplierSummary {
	if row.SupplierID == nil || row.SupplierName == nil {
		return nil
	}
	return &models.SupplierSummary{
		ID:           *row.SupplierID,
		Name:         *row.SupplierName,
		ContactEmail: row.SupplierEmail,
		ContactPhone: row.SupplierPhone,
	}
}

// publishAlerts emits one inventory.low_stock event per alert. Best-effort:
// publish failures are logged, never surfaced to the caller.
func (s *AlertService) publishAlerts(ctx context.Context, companyID uuid.UUID, alerts []models.LowStockAlert) {
	if s.publisher == nil {
		return
	}
	for _, alert := range alerts {
		if err := s.publisher.PublishLowStockAlert(ctx, companyID, alert); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"companyId": companyID,
				"productId": alert.ProductID,
				"sku":       alert.SKU,
			}).Warn("Failed to publish low stock event")
		}
	}
}
