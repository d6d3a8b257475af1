// Package events provides NATS JetStream event publishing for inventory-api
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"inventory-api/internal/models"
)

const (
	streamName      = "INVENTORY"
	subjectLowStock = "inventory.low_stock"
	publishTimeout  = 10 * time.Second
)

// LowStockEvent is the wire shape of an inventory.low_stock event
type LowStockEvent struct {
	EventType         string    `json:"eventType"`
	CompanyID         string    `json:"companyId"`
	Timestamp         time.Time `json:"timestamp"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	SKU               string    `json:"sku"`
	WarehouseID       string    `json:"warehouseId"`
	WarehouseName     string    `json:"warehouseName"`
	CurrentQuantity   int       `json:"currentQuantity"`
	Threshold         int       `json:"threshold"`
	DaysUntilStockout *int      `json:"daysUntilStockout"`
}

// Publisher publishes inventory events to NATS JetStream
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the inventory stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("inventory-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"inventory.>"},
	}); err != nil {
		log.WithError(err).Warn("Failed to ensure inventory stream exists")
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: log.WithField("component", "inventory-events"),
	}, nil
}

// Close drains the NATS connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// PublishLowStockAlert publishes an inventory.low_stock event for one
// computed alert
func (p *Publisher) PublishLowStockAlert(ctx context.Context, companyID uuid.UUID, alert models.LowStockAlert) error {
	event := LowStockEvent{
		EventType:         subjectLowStock,
		CompanyID:         companyID.String(),
		Timestamp:         time.Now().UTC(),
		ProductID:         alert.ProductID.String(),
		ProductName:       alert.ProductName,
		SKU:               alert.SKU,
		WarehouseID:       alert.WarehouseID.String(),
		WarehouseName:     alert.WarehouseName,
		CurrentQuantity:   alert.CurrentQuantity,
		Threshold:         alert.Threshold,
		DaysUntilStockout: alert.DaysUntilStockout,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal low stock event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := p.js.Publish(pubCtx, subjectLowStock, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subjectLowStock, err)
	}

	p.logger.WithFields(logrus.Fields{
		"companyId":    event.CompanyID,
		"productId":    event.ProductID,
		"sku":          event.SKU,
		"currentStock": event.CurrentQuantity,
		"threshold":    event.Threshold,
	}).Info("Published inventory.low_stock event")
	return nil
}
