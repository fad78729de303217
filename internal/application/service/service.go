package service

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("salepilot/service")

// InventoryPolicy relaxes the stock safety checks
type InventoryPolicy struct {
	AllowNegativeStock bool
	AllowOverReceipt   bool
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publish hands the event to the publisher without blocking the caller.
// It must only be called after the transaction has committed.
func publish(ctx context.Context, pub events.Publisher, log logrus.FieldLogger, eventType string, resourceID uuid.UUID, data any) {
	tenantID, _ := tenant.FromContext(ctx)
	ev := events.Event{
		Type:       eventType,
		TenantID:   tenantID,
		ResourceID: resourceID,
		Data:       data,
		OccurredAt: time.Now(),
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := pub.Publish(ctx, ev); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"event":    eventType,
				"resource": resourceID,
			}).Warn("event publish failed")
		}
	}()
}

// sortIDs orders ids so rows are always locked in the same sequence
func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
