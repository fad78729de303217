package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StockTakeService runs physical count sessions. A tenant has at most one active session.
type StockTakeService struct {
	tx            repository.Transactor
	stockTakeRepo repository.StockTakeRepository
	productRepo   repository.ProductRepository
	stock         *StockLedger
	locker        lock.Locker
	publisher     events.Publisher
	log           logrus.FieldLogger
}

// NewStockTakeService creates a new stock take service
func NewStockTakeService(
	tx repository.Transactor,
	stockTakeRepo repository.StockTakeRepository,
	productRepo repository.ProductRepository,
	stock *StockLedger,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *StockTakeService {
	return &StockTakeService{
		tx:            tx,
		stockTakeRepo: stockTakeRepo,
		productRepo:   productRepo,
		stock:         stock,
		locker:        locker,
		publisher:     publisher,
		log:           log.WithField("module", "stock_take_service"),
	}
}

// StartStockTake opens a session snapshotting the expected stock of every active product
func (s *StockTakeService) StartStockTake(ctx context.Context) (*entity.StockTake, error) {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Obtain(ctx, lock.Key("stock-take", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	var st *entity.StockTake
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.stockTakeRepo.GetActive(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return apperror.NewConflictError("A stock take is already in progress")
		}

		products, err := s.productRepo.ListActive(ctx)
		if err != nil {
			return err
		}

		st = &entity.StockTake{
			Status:    enum.StockTakeStatusActive,
			StartedAt: time.Now(),
			Items:     make([]entity.StockTakeItem, 0, len(products)),
		}
		for _, p := range products {
			st.Items = append(st.Items, entity.StockTakeItem{
				ProductID: p.ID,
				Name:      p.Name,
				SKU:       p.SKU,
				Expected:  p.Stock,
			})
		}
		return s.stockTakeRepo.Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"stock_take": st.ID, "items": len(st.Items)}).Info("stock take started")
	return st, nil
}

// GetActiveStockTake returns the session in progress
func (s *StockTakeService) GetActiveStockTake(ctx context.Context) (*entity.StockTake, error) {
	st, err := s.stockTakeRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.NewNotFoundError("Active stock take")
	}
	return st, nil
}

// UpdateItemCountInput records the counted quantity of one product
type UpdateItemCountInput struct {
	Counted decimal.Decimal `json:"counted" validate:"gte=0"`
}

// UpdateItemCount records a count on the active session
func (s *StockTakeService) UpdateItemCount(ctx context.Context, productID uuid.UUID, input *UpdateItemCountInput) (*entity.StockTakeItem, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var item *entity.StockTakeItem
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		st, err := s.GetActiveStockTake(ctx)
		if err != nil {
			return err
		}
		item, err = s.stockTakeRepo.GetItem(ctx, st.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Product in active stock take")
		}
		counted := input.Counted
		item.Counted = &counted
		return s.stockTakeRepo.UpdateItemCount(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FinalizeStockTake overwrites stock with every count that differs from the snapshot
// and closes the session
func (s *StockTakeService) FinalizeStockTake(ctx context.Context) (st *entity.StockTake, err error) {
	ctx, span := tracer.Start(ctx, "StockTakeService.FinalizeStockTake")
	defer func() { endSpan(span, err) }()

	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Obtain(ctx, lock.Key("stock-take", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	adjusted := 0
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.GetActiveStockTake(ctx)
		if err != nil {
			return err
		}
		st, err = s.stockTakeRepo.GetForUpdate(ctx, active.ID)
		if err != nil {
			return err
		}
		if st.Status != enum.StockTakeStatusActive {
			return apperror.NewConflictError("Stock take is already completed")
		}

		var ids []uuid.UUID
		counts := make(map[uuid.UUID]decimal.Decimal)
		for _, item := range st.Items {
			if item.Counted == nil || item.Counted.Equal(item.Expected) {
				continue
			}
			ids = append(ids, item.ProductID)
			counts[item.ProductID] = *item.Counted
		}
		sortIDs(ids)
		for _, id := range ids {
			if _, err := s.stock.Overwrite(ctx, id, counts[id]); err != nil {
				return err
			}
		}
		adjusted = len(ids)

		now := time.Now()
		st.Status = enum.StockTakeStatusCompleted
		st.CompletedAt = &now
		return s.stockTakeRepo.UpdateFields(ctx, st, "status", "completed_at")
	})
	if err != nil {
		logger.LogError(s.log, "stock_take_service.go", "FinalizeStockTake", "finalize stock take transaction", tenantID, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"stock_take": st.ID, "adjusted": adjusted}).Info("stock take finalized")
	publish(ctx, s.publisher, s.log, events.StockTakeFinalized, st.ID, map[string]any{
		"adjusted": adjusted,
	})
	return st, nil
}

// ListStockTakes returns past and current sessions, newest first
func (s *StockTakeService) ListStockTakes(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockTake], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	sessions, total, err := s.stockTakeRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// GetStockTakeItems returns the lines of a session
func (s *StockTakeService) GetStockTakeItems(ctx context.Context, id uuid.UUID) ([]entity.StockTakeItem, error) {
	st, err := s.stockTakeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.Items, nil
}
