package service

import (
	"context"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/pkg/actor"
	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/permissions"
	"github.com/jmoiron/sqlx"
)

// BatchStore reads the purchase batch ledger. The queryer parameter lets
// the service run reads inside one snapshot transaction.
type BatchStore interface {
	ListFiltered(ctx context.Context, q sqlx.ExtContext, c domain.Criteria) ([]*domain.Batch, error)
	GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*domain.Batch, error)
}

// UsageStore reads aggregated consumption totals.
type UsageStore interface {
	TotalsByBatch(ctx context.Context, q sqlx.ExtContext) (map[string]int, error)
	TotalForBatch(ctx context.Context, q sqlx.ExtContext, batchID string) (int, error)
}

// InventoryService derives stock positions from the purchase and usage
// ledgers and aggregates them into the classification hierarchy. It holds
// no mutable state; every request builds and discards its own accumulators.
type InventoryService struct {
	db      *database.DB
	batches BatchStore
	usage   UsageStore
	logger  *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(db *database.DB, batches BatchStore, usage UsageStore, log *logger.Logger) *InventoryService {
	return &InventoryService{
		db:      db,
		batches: batches,
		usage:   usage,
		logger:  log,
	}
}

// HierarchyParams is a validated hierarchy query
type HierarchyParams struct {
	Criteria  domain.Criteria
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// HierarchyResult is the aggregated response payload
type HierarchyResult struct {
	Hierarchy  []*CategoryNode `json:"hierarchy"`
	Pagination Pagination      `json:"pagination"`
}

// GetHierarchy computes the stock hierarchy for the caller's filter set.
// Costs and supplier identities are withheld unless the caller's role
// carries cost visibility.
func (s *InventoryService) GetHierarchy(ctx context.Context, p HierarchyParams) (*HierarchyResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}

	// An explicitly empty category set matches nothing; answer without
	// touching the stores.
	if p.Criteria.MatchesNothing() {
		_, pagination := paginate(nil, p.Page, p.Limit)
		return &HierarchyResult{
			Hierarchy:  []*CategoryNode{},
			Pagination: pagination,
		}, nil
	}

	stocks, err := s.loadStocks(ctx, p.Criteria)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load inventory ledgers")
		return nil, errors.Internal("failed to load inventory data")
	}

	nodes := buildHierarchy(stocks)
	sortCategories(nodes, p.SortBy, p.SortOrder)
	page, pagination := paginate(nodes, p.Page, p.Limit)

	if !s.canViewCosts(ctx) {
		redactCosts(page)
	}

	return &HierarchyResult{
		Hierarchy:  page,
		Pagination: pagination,
	}, nil
}

// loadStocks reads both ledgers inside one snapshot transaction and derives
// per-batch stock. A concurrent write is either fully visible or fully
// invisible to the pair of reads, never partially reflected.
func (s *InventoryService) loadStocks(ctx context.Context, c domain.Criteria) ([]domain.BatchStock, error) {
	var stocks []domain.BatchStock

	err := s.db.ReadSnapshot(ctx, func(tx *sqlx.Tx) error {
		batches, err := s.batches.ListFiltered(ctx, tx, c)
		if err != nil {
			return err
		}

		totals, err := s.usage.TotalsByBatch(ctx, tx)
		if err != nil {
			return err
		}

		stocks = make([]domain.BatchStock, 0, len(batches))
		for _, b := range batches {
			st := domain.ComputeStock(b, totals[b.ID])
			if c.LowStockOnly && !st.IsLowStock {
				continue
			}
			stocks = append(stocks, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stocks, nil
}

// GetBatchStock returns one batch with its derived stock position.
func (s *InventoryService) GetBatchStock(ctx context.Context, id string) (*BatchView, error) {
	var view *BatchView

	err := s.db.ReadSnapshot(ctx, func(tx *sqlx.Tx) error {
		batch, err := s.batches.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		used, err := s.usage.TotalForBatch(ctx, tx, id)
		if err != nil {
			return err
		}

		view = newBatchView(domain.ComputeStock(batch, used))
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.logger.Error().Err(err).Str("batch_id", id).Msg("failed to load batch stock")
		return nil, errors.Internal("failed to load batch data")
	}

	if !s.canViewCosts(ctx) {
		redactBatchView(view)
	}

	return view, nil
}

func (s *InventoryService) canViewCosts(ctx context.Context) bool {
	return permissions.RoleCan(actor.Role(ctx), permissions.PermCostsRead)
}
