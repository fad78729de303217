package service

import (
	"context"
	"fmt"
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
	"github.com/sangkips/salepilot-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PurchaseOrderService raises purchase orders and receives deliveries into stock
type PurchaseOrderService struct {
	tx           repository.Transactor
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	stock        *StockLedger
	policy       InventoryPolicy
	locker       lock.Locker
	publisher    events.Publisher
	log          logrus.FieldLogger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	tx repository.Transactor,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	stock *StockLedger,
	policy InventoryPolicy,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		tx:           tx,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		stock:        stock,
		policy:       policy,
		locker:       locker,
		publisher:    publisher,
		log:          log.WithField("module", "purchase_order_service"),
	}
}

// PurchaseOrderItemInput is one ordered product
type PurchaseOrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"gte=0"`
}

// CreatePurchaseOrderInput represents the create purchase order input
type CreatePurchaseOrderInput struct {
	SupplierID   uuid.UUID                `json:"supplier_id" validate:"required"`
	Items        []PurchaseOrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingCost decimal.Decimal          `json:"shipping_cost" validate:"gte=0"`
	Tax          decimal.Decimal          `json:"tax" validate:"gte=0"`
	Notes        *string                  `json:"notes"`
	ExpectedAt   *time.Time               `json:"expected_at"`
}

// CreatePurchaseOrder creates a DRAFT order numbered PO-<year>-<NNNN> per tenant
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input *CreatePurchaseOrderInput) (po *entity.PurchaseOrder, err error) {
	ctx, span := tracer.Start(ctx, "PurchaseOrderService.CreatePurchaseOrder")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, lock.Key("po-number", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		items := make([]entity.PurchaseOrderItem, 0, len(input.Items))
		seen := make(map[uuid.UUID]struct{}, len(input.Items))
		for _, in := range input.Items {
			product, err := s.productRepo.GetByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			// receiving matches lines by product, so each product gets one line
			if _, dup := seen[product.ID]; dup {
				return apperror.NewConflictError(fmt.Sprintf("Product %s appears on more than one line", product.SKU))
			}
			seen[product.ID] = struct{}{}
			line := in.CostPrice.Mul(in.Quantity).Round(2)
			subtotal = subtotal.Add(line)
			items = append(items, entity.PurchaseOrderItem{
				ProductID:        product.ID,
				ProductName:      product.Name,
				SKU:              product.SKU,
				Quantity:         in.Quantity,
				CostPrice:        in.CostPrice,
				ReceivedQuantity: decimal.Zero,
				LineTotal:        line,
			})
		}

		year := time.Now().Year()
		count, err := s.poRepo.CountByNumberPrefix(ctx, utils.PONumberPrefix(year))
		if err != nil {
			return err
		}

		po = &entity.PurchaseOrder{
			PONumber:     utils.FormatPONumber(year, count+1),
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			Status:       enum.PurchaseOrderStatusDraft,
			Subtotal:     subtotal,
			ShippingCost: input.ShippingCost,
			Tax:          input.Tax,
			Total:        subtotal.Add(input.ShippingCost).Add(input.Tax),
			Notes:        input.Notes,
			ExpectedAt:   input.ExpectedAt,
			Items:        items,
		}
		return s.poRepo.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"purchase_order": po.ID,
		"number":         po.PONumber,
		"total":          po.Total.String(),
	}).Info("purchase order created")
	return po, nil
}

// GetPurchaseOrder retrieves an order with its items
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	return s.poRepo.GetByID(ctx, id)
}

// ListPurchaseOrders lists orders, optionally by status
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, params *pagination.PaginationParams, status *enum.PurchaseOrderStatus) (*pagination.PaginatedResult[entity.PurchaseOrder], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	orders, total, err := s.poRepo.List(ctx, params, status)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// manual status moves; receiving owns PARTIALLY_RECEIVED and RECEIVED
var poTransitions = map[enum.PurchaseOrderStatus][]enum.PurchaseOrderStatus{
	enum.PurchaseOrderStatusDraft:   {enum.PurchaseOrderStatusOrdered, enum.PurchaseOrderStatusCanceled},
	enum.PurchaseOrderStatusOrdered: {enum.PurchaseOrderStatusCanceled},
}

// CanTransition reports whether an order may be moved from one status to another by hand
func CanTransition(from, to enum.PurchaseOrderStatus) bool {
	for _, s := range poTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an order by hand: DRAFT to ORDERED, or DRAFT/ORDERED to CANCELED
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PurchaseOrderStatus) (*entity.PurchaseOrder, error) {
	release, err := s.locker.Obtain(ctx, lock.Key("po", id))
	if err != nil {
		return nil, err
	}
	defer release()

	var po *entity.PurchaseOrder
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(po.Status, status) {
			return apperror.NewConflictError("Cannot change purchase order status from " + po.Status.String() + " to " + status.String())
		}

		po.Status = status
		fields := []string{"status"}
		if status == enum.PurchaseOrderStatusOrdered {
			now := time.Now()
			po.OrderedAt = &now
			fields = append(fields, "ordered_at")
		}
		return s.poRepo.UpdateFields(ctx, po, fields...)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"purchase_order": po.ID,
		"status":         po.Status.String(),
	}).Info("purchase order status changed")
	return po, nil
}

// ReceiveItemInput is a delivered quantity of one product
type ReceiveItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// ReceiveInventoryInput represents one delivery against an order
type ReceiveInventoryInput struct {
	Items []ReceiveItemInput `json:"items" validate:"required,min=1,dive"`
}

// ReceiveInventory books a delivery: received quantities grow, stock is added at a
// weighted-average cost, and the order moves to PARTIALLY_RECEIVED or RECEIVED.
func (s *PurchaseOrderService) ReceiveInventory(ctx context.Context, id uuid.UUID, input *ReceiveInventoryInput) (po *entity.PurchaseOrder, err error) {
	ctx, span := tracer.Start(ctx, "PurchaseOrderService.ReceiveInventory")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, lock.Key("po", id))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po.Status != enum.PurchaseOrderStatusOrdered && po.Status != enum.PurchaseOrderStatusPartiallyReceived {
			return apperror.NewConflictError("Cannot receive inventory for a purchase order in status " + po.Status.String())
		}

		byProduct := make(map[uuid.UUID]*entity.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			byProduct[po.Items[i].ProductID] = &po.Items[i]
		}

		for _, in := range input.Items {
			item, ok := byProduct[in.ProductID]
			if !ok {
				return apperror.NewNotFoundError("Product " + in.ProductID.String() + " on purchase order")
			}
			if !in.Quantity.IsPositive() {
				continue
			}
			if in.Quantity.GreaterThan(item.Remaining()) && !s.policy.AllowOverReceipt {
				return apperror.NewInvalidAmountError("Received quantity for " + item.SKU +
					" exceeds the outstanding " + item.Remaining().String())
			}

			item.ReceivedQuantity = item.ReceivedQuantity.Add(in.Quantity)
			if err := s.poRepo.UpdateItemReceived(ctx, item); err != nil {
				return err
			}
			if _, err := s.stock.Receive(ctx, item.ProductID, in.Quantity, item.CostPrice); err != nil {
				return err
			}
		}

		po.Status = ReceivingStatus(po.Items)
		fields := []string{"status"}
		if po.Status == enum.PurchaseOrderStatusReceived {
			now := time.Now()
			po.ReceivedAt = &now
			fields = append(fields, "received_at")
		}
		return s.poRepo.UpdateFields(ctx, po, fields...)
	})
	if err != nil {
		logger.LogError(s.log, "purchase_order_service.go", "ReceiveInventory", "receive inventory transaction", id, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"purchase_order": po.ID,
		"status":         po.Status.String(),
	}).Info("purchase order received")
	publish(ctx, s.publisher, s.log, events.PurchaseOrderReceived, po.ID, map[string]any{
		"po_number": po.PONumber,
		"status":    po.Status,
	})

	return po, nil
}

// ReceivingStatus derives the order status from its items after a delivery
func ReceivingStatus(items []entity.PurchaseOrderItem) enum.PurchaseOrderStatus {
	all, some := true, false
	for i := range items {
		if !items[i].FullyReceived() {
			all = false
		}
		if items[i].ReceivedQuantity.IsPositive() {
			some = true
		}
	}
	switch {
	case all:
		return enum.PurchaseOrderStatusReceived
	case some:
		return enum.PurchaseOrderStatusPartiallyReceived
	default:
		return enum.PurchaseOrderStatusOrdered
	}
}
