package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReturnService records goods coming back against a sale
type ReturnService struct {
	tx          repository.Transactor
	returnRepo  repository.ReturnRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	customers   *CustomerService
	stock       *StockLedger
	locker      lock.Locker
	publisher   events.Publisher
	log         logrus.FieldLogger
}

// NewReturnService creates a new return service
func NewReturnService(
	tx repository.Transactor,
	returnRepo repository.ReturnRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customers *CustomerService,
	stock *StockLedger,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *ReturnService {
	return &ReturnService{
		tx:          tx,
		returnRepo:  returnRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		customers:   customers,
		stock:       stock,
		locker:      locker,
		publisher:   publisher,
		log:         log.WithField("module", "return_service"),
	}
}

// ReturnItemInput is one returned product line
type ReturnItemInput struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	AddToStock bool            `json:"add_to_stock"`
	Reason     *string         `json:"reason"`
}

// CreateReturnInput represents the create return input
type CreateReturnInput struct {
	SaleID       uuid.UUID         `json:"sale_id" validate:"required"`
	Items        []ReturnItemInput `json:"items" validate:"required,min=1,dive"`
	RefundAmount decimal.Decimal   `json:"refund_amount" validate:"gt=0"`
	RefundMethod string            `json:"refund_method" validate:"required,max=50"`
	Reason       *string           `json:"reason"`
	ReturnDate   *time.Time        `json:"return_date"`
}

// CreateReturn refunds part or all of what was paid on a sale. Refunds accumulate on the
// sale and may never exceed the amount paid. Store credit refunds are credited to the customer.
func (s *ReturnService) CreateReturn(ctx context.Context, input *CreateReturnInput) (ret *entity.SalesReturn, err error) {
	ctx, span := tracer.Start(ctx, "ReturnService.CreateReturn")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, lock.Key("sale", input.SaleID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetForUpdate(ctx, input.SaleID)
		if err != nil {
			return err
		}

		refunded := sale.RefundedAmount.Add(input.RefundAmount)
		if refunded.GreaterThan(sale.AmountPaid) {
			return apperror.NewInvalidAmountError("Refund exceeds the amount paid. Refundable: " +
				sale.AmountPaid.Sub(sale.RefundedAmount).StringFixed(2))
		}

		restock := make(map[uuid.UUID]decimal.Decimal)
		var restockIDs []uuid.UUID
		items := make([]entity.ReturnItem, 0, len(input.Items))
		for _, in := range input.Items {
			product, err := s.productRepo.GetByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if in.AddToStock {
				if _, seen := restock[product.ID]; !seen {
					restockIDs = append(restockIDs, product.ID)
				}
				restock[product.ID] = restock[product.ID].Add(in.Quantity)
			}
			items = append(items, entity.ReturnItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    in.Quantity,
				AddToStock:  in.AddToStock,
				Reason:      in.Reason,
			})
		}

		sortIDs(restockIDs)
		for _, id := range restockIDs {
			if _, err := s.stock.Increment(ctx, id, restock[id]); err != nil {
				return err
			}
		}

		returnDate := time.Now()
		if input.ReturnDate != nil {
			returnDate = *input.ReturnDate
		}
		ret = &entity.SalesReturn{
			SaleID:       sale.ID,
			CustomerID:   sale.CustomerID,
			RefundAmount: input.RefundAmount,
			RefundMethod: input.RefundMethod,
			Reason:       input.Reason,
			ReturnDate:   returnDate,
			Items:        items,
		}
		if err := s.returnRepo.Create(ctx, ret); err != nil {
			return err
		}

		sale.RefundedAmount = refunded
		sale.RefundStatus = RefundStatusFor(sale.Total, refunded)
		if err := s.saleRepo.UpdateFields(ctx, sale, "refunded_amount", "refund_status"); err != nil {
			return err
		}

		if strings.EqualFold(input.RefundMethod, entity.RefundMethodStoreCredit) && sale.CustomerID != nil {
			if _, err := s.customers.AddStoreCredit(ctx, *sale.CustomerID, input.RefundAmount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.LogError(s.log, "return_service.go", "CreateReturn", "create return transaction", input.SaleID, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"return": ret.ID,
		"sale":   ret.SaleID,
		"amount": ret.RefundAmount.String(),
	}).Info("return created")
	publish(ctx, s.publisher, s.log, events.ReturnCreated, ret.ID, map[string]any{
		"sale_id":       ret.SaleID,
		"refund_amount": ret.RefundAmount,
		"refund_method": ret.RefundMethod,
	})

	return ret, nil
}

// GetReturn retrieves a return with its items
func (s *ReturnService) GetReturn(ctx context.Context, id uuid.UUID) (*entity.SalesReturn, error) {
	return s.returnRepo.GetByID(ctx, id)
}

// ListReturns lists returns, optionally for one sale
func (s *ReturnService) ListReturns(ctx context.Context, params *pagination.PaginationParams, saleID *uuid.UUID) (*pagination.PaginatedResult[entity.SalesReturn], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	returns, total, err := s.returnRepo.List(ctx, params, saleID)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(returns, pag), nil
}

// RefundStatusFor classifies a sale by its cumulative refunds
func RefundStatusFor(total, refunded decimal.Decimal) enum.RefundStatus {
	switch {
	case !refunded.IsPositive():
		return enum.RefundStatusNone
	case refunded.GreaterThanOrEqual(total):
		return enum.RefundStatusFullyRefunded
	default:
		return enum.RefundStatusPartiallyRefunded
	}
}
