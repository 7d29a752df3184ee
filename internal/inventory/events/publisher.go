package events

import (
	"context"

	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishLowStockDetected publishes a low stock detected event
func (p *InventoryEventPublisher) PublishLowStockDetected(ctx context.Context, ev messaging.LowStockEvent) {
	if p == nil {
		return
	}

	if err := p.publisher.Publish(ctx, messaging.EventLowStockDetected, ev); err != nil {
		p.logger.Error().Err(err).Str("batch_id", ev.BatchID).Msg("failed to publish low stock detected event")
	}
}

// PublishLowStockCleared publishes a low stock cleared event
func (p *InventoryEventPublisher) PublishLowStockCleared(ctx context.Context, ev messaging.LowStockEvent) {
	if p == nil {
		return
	}

	if err := p.publisher.Publish(ctx, messaging.EventLowStockCleared, ev); err != nil {
		p.logger.Error().Err(err).Str("batch_id", ev.BatchID).Msg("failed to publish low stock cleared event")
	}
}
