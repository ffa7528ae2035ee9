package action

import (
	"context"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/kafka"
)

// PublishAction forwards every risk event as JSON to a Kafka topic for
// downstream consumers, keyed by transaction digest.
type PublishAction struct {
	producer kafka.Producer
	topic    string
}

// NewPublishAction creates the Kafka publisher handler
func NewPublishAction(producer kafka.Producer, topic string) *PublishAction {
	return &PublishAction{producer: producer, topic: topic}
}

// Name identifies the handler in logs
func (a *PublishAction) Name() string { return "publish" }

// Handle publishes the event
func (a *PublishAction) Handle(ctx context.Context, event *risk.RiskEvent) error {
	return a.producer.ProduceJSON(ctx, a.topic, event.TxDigest, event)
}
