package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const (
	TopicCatalog   = "catalog_events"
	TopicCart      = "cart_events"
	TopicReview    = "review_events"
	TopicPromotion = "promotion_events"
)

var Topics = []string{TopicCatalog, TopicCart, TopicReview, TopicPromotion}

type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	UserID     string    `json:"user_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }

const publishTimeout = 5 * time.Second

// publish is fire-and-report: a failed publish is logged and the caller's
// already committed operation still succeeds.
func publish(ctx context.Context, p Publisher, topic string, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, ev.EntityID, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
