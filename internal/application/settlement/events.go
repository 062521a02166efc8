package settlement

import (
	"context"

	"go.uber.org/zap"

	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/infrastructure/logger"
)

// publishEvents drains an aggregate's pending domain events into the
// structured log. Call after the transition has been persisted.
func publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	log := logger.FromContext(ctx)
	for _, event := range agg.GetDomainEvents() {
		log.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("house_id", event.HouseID().String()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	agg.ClearDomainEvents()
}
