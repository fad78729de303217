package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StockLedger owns each product's quantity on hand.
// Callers run it inside a transaction; every mutation locks the product row first.
type StockLedger struct {
	productRepo repository.ProductRepository
	policy      InventoryPolicy
	log         logrus.FieldLogger
}

// NewStockLedger creates a new stock ledger
func NewStockLedger(productRepo repository.ProductRepository, policy InventoryPolicy, log logrus.FieldLogger) *StockLedger {
	return &StockLedger{
		productRepo: productRepo,
		policy:      policy,
		log:         log.WithField("module", "stock_ledger"),
	}
}

// Decrement removes qty from stock. The result may not go below zero unless
// the policy allows negative stock.
func (l *StockLedger) Decrement(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (*entity.Product, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewInvalidAmountError("quantity must be greater than zero")
	}

	product, err := l.productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	next := product.Stock.Sub(qty)
	if next.IsNegative() && !l.policy.AllowNegativeStock {
		return nil, apperror.NewInsufficientStockError(product.SKU, product.Stock)
	}

	return l.write(ctx, product, next)
}

// Increment adds qty to stock
func (l *StockLedger) Increment(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (*entity.Product, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewInvalidAmountError("quantity must be greater than zero")
	}

	product, err := l.productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, product, product.Stock.Add(qty))
}

// Receive adds qty bought at unitCost and moves the product's cost price to
// the weighted average of what was on hand and what arrived.
func (l *StockLedger) Receive(ctx context.Context, productID uuid.UUID, qty, unitCost decimal.Decimal) (*entity.Product, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewInvalidAmountError("quantity must be greater than zero")
	}

	product, err := l.productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.CostPrice = WeightedAverageCost(product.Stock, product.CostPrice, qty, unitCost)
	product.Stock = product.Stock.Add(qty)
	if err := l.productRepo.UpdateFields(ctx, product, "stock", "cost_price"); err != nil {
		return nil, err
	}
	product.LowStock = product.IsLowStock()
	return product, nil
}

// Overwrite sets stock to an absolute counted quantity
func (l *StockLedger) Overwrite(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (*entity.Product, error) {
	if qty.IsNegative() {
		return nil, apperror.NewInvalidAmountError("counted quantity must not be negative")
	}

	product, err := l.productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, product, qty)
}

func (l *StockLedger) write(ctx context.Context, product *entity.Product, stock decimal.Decimal) (*entity.Product, error) {
	product.Stock = stock
	if err := l.productRepo.UpdateFields(ctx, product, "stock"); err != nil {
		return nil, err
	}
	product.LowStock = product.IsLowStock()
	if product.LowStock {
		l.log.WithFields(logrus.Fields{
			"product": product.ID,
			"sku":     product.SKU,
			"stock":   product.Stock.String(),
		}).Info("product is at or below its reorder point")
	}
	return product, nil
}

// WeightedAverageCost blends the cost of stock on hand with a new receipt.
// Non-positive stock on hand contributes nothing, so the receipt cost is used as is.
func WeightedAverageCost(onHand, currentCost, qty, unitCost decimal.Decimal) decimal.Decimal {
	if !onHand.IsPositive() {
		return unitCost
	}
	totalQty := onHand.Add(qty)
	if !totalQty.IsPositive() {
		return unitCost
	}
	value := onHand.Mul(currentCost).Add(qty.Mul(unitCost))
	return value.DivRound(totalQty, 2)
}
