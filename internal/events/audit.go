package events

import (
	"context"

	"go.uber.org/zap"
)

// RegisterAuditLog subscribes a logging handler to every workflow event,
// giving admins a searchable trail of who did what.
func RegisterAuditLog(dispatcher Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, event Event) error {
		logger.Info("audit",
			zap.String("event", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.String("actor_id", event.ActorID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []EventType{
		EventTicketCreated,
		EventTicketReplied,
		EventTicketAssigned,
		EventTicketClosed,
		EventApplicationSubmitted,
		EventApplicationReviewed,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
