package repository

import (
	"context"

	pkgkafka "github.com/Akash-repo/service-p/pkg/kafka"
)

// KafkaEnvelopeBroker writes pre-encoded envelopes to Kafka, keyed by message ID.
type KafkaEnvelopeBroker struct {
	producer *pkgkafka.Producer
}

// NewKafkaEnvelopeBroker creates Kafka envelope broker.
func NewKafkaEnvelopeBroker(producer *pkgkafka.Producer) *KafkaEnvelopeBroker {
	return &KafkaEnvelopeBroker{producer: producer}
}

// Send makes exactly one write attempt.
func (b *KafkaEnvelopeBroker) Send(ctx context.Context, topic, key string, payload []byte) error {
	return b.producer.Publish(ctx, topic, []byte(key), payload)
}

func (b *KafkaEnvelopeBroker) Close() error {
	return b.producer.Close()
}
