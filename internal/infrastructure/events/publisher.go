// Package events delivers one-way notifications about completed core operations.
// Delivery failures never affect the operation that produced the event.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	SaleCompleted         = "sale.completed"
	PaymentRecorded       = "payment.recorded"
	ReturnCreated         = "return.created"
	PurchaseOrderReceived = "purchase_order.received"
	StockTakeFinalized    = "stock_take.finalized"
	JournalEntryPosted    = "journal_entry.posted"
)

// Event is the payload broadcast to subscribers of a tenant's channel
type Event struct {
	Type       string    `json:"type"`
	TenantID   uuid.UUID `json:"tenant_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends events to whoever is listening
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when Redis is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
