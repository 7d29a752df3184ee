package service

import (
	"context"
	"fmt"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/internal/inventory/repository"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
)

// AlertStore persists the low-stock alert ledger with scan-cycle dedup.
type AlertStore interface {
	Create(ctx context.Context, alert *repository.InventoryAlert) error
	ExistsActive(ctx context.Context, batchID string) (bool, error)
	ResolveForBatch(ctx context.Context, batchID string) (bool, error)
}

// LowStockPublisher publishes low-stock transition events.
type LowStockPublisher interface {
	PublishLowStockDetected(ctx context.Context, ev messaging.LowStockEvent)
	PublishLowStockCleared(ctx context.Context, ev messaging.LowStockEvent)
}

// AlertScanner recomputes stock for the whole ledger and maintains the
// low-stock alert ledger: one active alert per batch below its threshold,
// resolved automatically when the batch recovers. Transitions are also
// published as events for downstream consumers (purchasing dashboards,
// notification bots).
type AlertScanner struct {
	inventory *InventoryService
	alerts    AlertStore
	publisher LowStockPublisher
	logger    *logger.Logger
}

// NewAlertScanner creates a new alert scanner
func NewAlertScanner(inventory *InventoryService, alerts AlertStore, publisher LowStockPublisher, log *logger.Logger) *AlertScanner {
	return &AlertScanner{
		inventory: inventory,
		alerts:    alerts,
		publisher: publisher,
		logger:    log.WithComponent("alert-scanner"),
	}
}

// Scan runs one alert scan cycle. Per-batch failures are logged and
// skipped so one bad row cannot stall the whole cycle.
func (s *AlertScanner) Scan(ctx context.Context) error {
	stocks, err := s.inventory.loadStocks(ctx, domain.Criteria{})
	if err != nil {
		return fmt.Errorf("alert scan: load stocks: %w", err)
	}

	for _, st := range stocks {
		if st.IsLowStock {
			s.raiseAlert(ctx, st)
		} else {
			s.clearAlert(ctx, st)
		}
	}

	return nil
}

func (s *AlertScanner) raiseAlert(ctx context.Context, st domain.BatchStock) {
	b := st.Batch

	exists, err := s.alerts.ExistsActive(ctx, b.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("batch_id", b.ID).Msg("failed to check existing alert")
		return
	}
	if exists {
		return
	}

	alert := &repository.InventoryAlert{
		BatchID:           b.ID,
		BatchCode:         b.Code,
		BatchName:         b.Name,
		AlertType:         "low_stock",
		RemainingQuantity: st.RemainingQuantity,
		MinStockAlert:     *b.MinStockAlert,
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.Error().Err(err).Str("batch_id", b.ID).Msg("failed to create low stock alert")
		return
	}

	s.logger.Info().
		Str("batch_id", b.ID).
		Str("batch_code", b.Code).
		Int("remaining", st.RemainingQuantity).
		Int("threshold", *b.MinStockAlert).
		Msg("low stock detected")

	if s.publisher != nil {
		s.publisher.PublishLowStockDetected(ctx, lowStockEvent(st))
	}
}

func (s *AlertScanner) clearAlert(ctx context.Context, st domain.BatchStock) {
	b := st.Batch

	resolved, err := s.alerts.ResolveForBatch(ctx, b.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("batch_id", b.ID).Msg("failed to resolve alert")
		return
	}
	if !resolved {
		return
	}

	s.logger.Info().
		Str("batch_id", b.ID).
		Str("batch_code", b.Code).
		Int("remaining", st.RemainingQuantity).
		Msg("low stock cleared")

	if s.publisher != nil {
		s.publisher.PublishLowStockCleared(ctx, lowStockEvent(st))
	}
}

func lowStockEvent(st domain.BatchStock) messaging.LowStockEvent {
	b := st.Batch
	threshold := 0
	if b.MinStockAlert != nil {
		threshold = *b.MinStockAlert
	}
	return messaging.LowStockEvent{
		BatchID:           b.ID,
		BatchCode:         b.Code,
		BatchName:         b.Name,
		Category:          string(b.Category),
		RemainingQuantity: st.RemainingQuantity,
		MinStockAlert:     threshold,
	}
}
