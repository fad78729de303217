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
	"github.com/sangkips/salepilot-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultPaymentMethod = "Cash"

// SaleService creates sales and settles them with payments
type SaleService struct {
	tx          repository.Transactor
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	customers   *CustomerService
	stock       *StockLedger
	locker      lock.Locker
	publisher   events.Publisher
	log         logrus.FieldLogger
}

// NewSaleService creates a new sale service
func NewSaleService(
	tx repository.Transactor,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	customers *CustomerService,
	stock *StockLedger,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *SaleService {
	return &SaleService{
		tx:          tx,
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		customers:   customers,
		stock:       stock,
		locker:      locker,
		publisher:   publisher,
		log:         log.WithField("module", "sale_service"),
	}
}

// SaleItemInput is one requested line. Price overrides the product's list price.
type SaleItemInput struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	CustomerID      *uuid.UUID      `json:"customer_id"`
	Items           []SaleItemInput `json:"items" validate:"required,min=1,dive"`
	Discount        decimal.Decimal `json:"discount" validate:"gte=0"`
	Tax             decimal.Decimal `json:"tax" validate:"gte=0"`
	StoreCreditUsed decimal.Decimal `json:"store_credit_used" validate:"gte=0"`
	AmountPaid      decimal.Decimal `json:"amount_paid" validate:"gte=0"`
	PaymentMethod   string          `json:"payment_method" validate:"max=50"`
	Notes           *string         `json:"notes"`
	SaleDate        *time.Time      `json:"sale_date"`
}

// CreateSale records a sale in one transaction: stock leaves the shelf, store credit
// is spent, unpaid balance is charged to the customer, and tendered cash becomes a payment.
// Any failure rolls every step back.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (sale *entity.Sale, err error) {
	ctx, span := tracer.Start(ctx, "SaleService.CreateSale")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := tenant.Require(ctx); err != nil {
		return nil, err
	}
	if input.StoreCreditUsed.IsPositive() && input.CustomerID == nil {
		return nil, apperror.NewBadRequestError("Store credit can only be used with a customer")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var customer *entity.Customer
		if input.CustomerID != nil {
			c, err := s.customers.GetCustomer(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			customer = c
		}

		// Decrement stock per product in id order, summing repeated lines
		quantities := make(map[uuid.UUID]decimal.Decimal, len(input.Items))
		ids := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			if _, seen := quantities[item.ProductID]; !seen {
				ids = append(ids, item.ProductID)
			}
			quantities[item.ProductID] = quantities[item.ProductID].Add(item.Quantity)
		}
		sortIDs(ids)

		products := make(map[uuid.UUID]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := s.stock.Decrement(ctx, id, quantities[id])
			if err != nil {
				return err
			}
			products[id] = p
		}

		subtotal := decimal.Zero
		items := make([]entity.SaleItem, 0, len(input.Items))
		for _, in := range input.Items {
			product := products[in.ProductID]
			price := product.Price
			if in.Price != nil {
				price = in.Price.Round(2)
			}
			line := price.Mul(in.Quantity).Round(2)
			subtotal = subtotal.Add(line)

			items = append(items, entity.SaleItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Quantity:    in.Quantity,
				PriceAtSale: price,
				CostAtSale:  product.CostPrice,
				LineTotal:   line,
			})
		}

		total := SaleTotal(subtotal, input.Discount, input.Tax)
		if total.IsNegative() {
			return apperror.NewInvalidAmountError("discount exceeds the sale amount")
		}

		if input.StoreCreditUsed.IsPositive() {
			if _, err := s.customers.DeductStoreCredit(ctx, customer.ID, input.StoreCreditUsed); err != nil {
				return err
			}
		}

		amountPaid := input.AmountPaid.Add(input.StoreCreditUsed)
		balanceDue := decimal.Max(total.Sub(amountPaid), decimal.Zero)

		if balanceDue.IsPositive() && customer != nil {
			if _, err := s.customers.AdjustAccountBalance(ctx, customer.ID, balanceDue.Neg()); err != nil {
				return err
			}
		}

		method := input.PaymentMethod
		if method == "" {
			method = defaultPaymentMethod
		}
		saleDate := time.Now()
		if input.SaleDate != nil {
			saleDate = *input.SaleDate
		}

		sale = &entity.Sale{
			TransactionID:   utils.GenerateTransactionID(),
			CustomerID:      input.CustomerID,
			Subtotal:        subtotal,
			Discount:        input.Discount,
			Tax:             input.Tax,
			Total:           total,
			StoreCreditUsed: input.StoreCreditUsed,
			AmountPaid:      amountPaid,
			BalanceDue:      balanceDue,
			PaymentStatus:   StatusForPayment(total, amountPaid),
			RefundStatus:    enum.RefundStatusNone,
			PaymentMethod:   method,
			Notes:           input.Notes,
			SaleDate:        saleDate,
			Items:           items,
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		if input.AmountPaid.IsPositive() {
			payment := &entity.Payment{
				SaleID:      sale.ID,
				Amount:      input.AmountPaid,
				Method:      method,
				PaymentDate: saleDate,
			}
			if err := s.paymentRepo.Append(ctx, payment); err != nil {
				return err
			}
			sale.Payments = []entity.Payment{*payment}
		}
		return nil
	})
	if err != nil {
		logger.LogError(s.log, "sale_service.go", "CreateSale", "create sale transaction", input.CustomerID, err)
		return nil, err
	}

	sale.ChangeDue = decimal.Max(sale.AmountPaid.Sub(sale.Total), decimal.Zero)
	span.SetAttributes(attribute.String("sale.id", sale.ID.String()))

	s.log.WithFields(logrus.Fields{
		"sale":           sale.ID,
		"transaction_id": sale.TransactionID,
		"total":          sale.Total.String(),
		"status":         sale.PaymentStatus.String(),
	}).Info("sale created")
	publish(ctx, s.publisher, s.log, events.SaleCompleted, sale.ID, map[string]any{
		"transaction_id": sale.TransactionID,
		"total":          sale.Total,
		"payment_status": sale.PaymentStatus,
	})

	return sale, nil
}

// AddPaymentInput represents a payment towards an open sale
type AddPaymentInput struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Method      string          `json:"method" validate:"required,max=50"`
	Reference   *string         `json:"reference" validate:"omitempty,max=255"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// AddPayment appends a payment and moves the sale toward PAID.
// A paid sale takes no more payments and a payment may not exceed what is still owed.
func (s *SaleService) AddPayment(ctx context.Context, saleID uuid.UUID, input *AddPaymentInput) (sale *entity.Sale, err error) {
	ctx, span := tracer.Start(ctx, "SaleService.AddPayment")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, lock.Key("sale", saleID))
	if err != nil {
		return nil, err
	}
	defer release()

	var payment *entity.Payment
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.saleRepo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		if sale.PaymentStatus == enum.PaymentStatusPaid {
			return apperror.NewConflictError("Sale is already paid")
		}
		remaining := sale.Outstanding()
		if input.Amount.GreaterThan(remaining) {
			return apperror.NewInvalidAmountError("Payment exceeds the remaining balance of " + remaining.StringFixed(2))
		}

		paidAt := time.Now()
		if input.PaymentDate != nil {
			paidAt = *input.PaymentDate
		}
		payment = &entity.Payment{
			SaleID:      sale.ID,
			Amount:      input.Amount,
			Method:      input.Method,
			Reference:   input.Reference,
			PaymentDate: paidAt,
		}
		if err := s.paymentRepo.Append(ctx, payment); err != nil {
			return err
		}

		sale.AmountPaid = sale.AmountPaid.Add(input.Amount)
		sale.BalanceDue = sale.Outstanding()
		sale.PaymentStatus = StatusAfterPayment(sale.Total, sale.AmountPaid)
		if err := s.saleRepo.UpdateFields(ctx, sale, "amount_paid", "balance_due", "payment_status"); err != nil {
			return err
		}

		if sale.CustomerID != nil {
			if _, err := s.customers.AdjustAccountBalance(ctx, *sale.CustomerID, input.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.LogError(s.log, "sale_service.go", "AddPayment", "add payment transaction", saleID, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sale":   sale.ID,
		"amount": input.Amount.String(),
		"status": sale.PaymentStatus.String(),
	}).Info("payment applied")
	publish(ctx, s.publisher, s.log, events.PaymentRecorded, sale.ID, map[string]any{
		"payment_id":     payment.ID,
		"amount":         payment.Amount,
		"payment_status": sale.PaymentStatus,
	})

	return sale, nil
}

// GetSale retrieves a sale with its items and payments
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return s.saleRepo.GetWithDetails(ctx, id)
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	if params.Cursor == nil {
		params.Cursor = pagination.DefaultCursorParams()
	}
	sales, err := s.saleRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(s entity.Sale) string { return s.ID.String() },
		func(s entity.Sale) time.Time { return s.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// ListItems returns the lines of a sale
func (s *SaleService) ListItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	if _, err := s.saleRepo.GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	return s.saleRepo.ListItems(ctx, saleID)
}

// ListPayments returns the payments recorded against a sale
func (s *SaleService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.saleRepo.GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListBySale(ctx, saleID)
}

// SaleTotal is subtotal - discount + tax
func SaleTotal(subtotal, discount, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax)
}

// StatusForPayment classifies a new sale
func StatusForPayment(total, amountPaid decimal.Decimal) enum.PaymentStatus {
	switch {
	case !total.Sub(amountPaid).IsPositive():
		return enum.PaymentStatusPaid
	case amountPaid.IsPositive():
		return enum.PaymentStatusPartiallyPaid
	default:
		return enum.PaymentStatusUnpaid
	}
}

// StatusAfterPayment never returns UNPAID: a recorded payment moves the sale forward
func StatusAfterPayment(total, amountPaid decimal.Decimal) enum.PaymentStatus {
	if amountPaid.GreaterThanOrEqual(total) {
		return enum.PaymentStatusPaid
	}
	return enum.PaymentStatusPartiallyPaid
}
