package natsadapter

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/pkg/logging"
)

// Subscriber implements ports.EventSubscriber with plain NATS subscriptions.
// Live relays only need events from now on, so no JetStream consumer is
// created.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber creates a subscriber sharing conn.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeItinerary calls handler for every event of one itinerary until the
// returned function is called.
func (s *Subscriber) SubscribeItinerary(ctx context.Context, itineraryID string, handler func(ctx context.Context, event *domain.ItineraryEvent) error) (func() error, error) {
	sub, err := s.conn.Subscribe(ItinerarySubject(itineraryID), func(msg *nats.Msg) {
		event, err := DecodeEvent(msg.Data)
		if err != nil {
			logging.FromContext(ctx).Warn("drop undecodable itinerary event", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, event); err != nil {
			logging.FromContext(ctx).Debug("itinerary event handler failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return sub.Unsubscribe, nil
}

// Connected reports whether the underlying connection is up.
func (s *Subscriber) Connected() bool {
	return s.conn.IsConnected()
}
