// Package eventing publishes pricing domain events to Kafka, grounded on
// github.com/wyfcoding/pkg/messagequeue/kafka's Producer and on
// internal/pricing/infrastructure/messaging/outbox_publisher.go's
// fire-and-forget outbox style.
package eventing

import (
	"context"
	"encoding/json"

	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/application"
)

// envelope tags a published event with a discriminator so a single topic
// (configured on the underlying Producer) can carry both event kinds.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher implements application.EventPublisher over a Kafka producer.
// The destination topic is fixed at Producer construction time (see
// cmd/mcoptions/main.go), following the one-producer-per-topic convention
// of github.com/wyfcoding/pkg/messagequeue/kafka.
type Publisher struct {
	producer *kafka.Producer
}

// NewPublisher wraps an already-constructed Kafka producer.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

// PublishPriceComputed publishes a PriceComputedEvent, keyed on instrument
// so a topic-level partitioner groups events by instrument family.
func (p *Publisher) PublishPriceComputed(ctx context.Context, evt application.PriceComputedEvent) error {
	body, err := json.Marshal(envelope{Type: "price_computed", Data: evt})
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, []byte(evt.Instrument), body)
}

// PublishPricingError publishes a PricingErrorEvent.
func (p *Publisher) PublishPricingError(ctx context.Context, evt application.PricingErrorEvent) error {
	body, err := json.Marshal(envelope{Type: "pricing_error", Data: evt})
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, []byte(evt.Instrument), body)
}
