package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// DefaultTopic receives simulated payments when no topic is configured.
const DefaultTopic = "clearvue.payments.simulated"

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher publishes simulated payments as JSON to a Kafka topic,
// keyed by payment ID.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
		Async:        false,
	}
	return newKafkaPublisher(w, topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

// Publish writes p to the topic.
func (k *KafkaPublisher) Publish(ctx context.Context, p Payment) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payment %s: %w", p.ID, err)
	}

	k.logger.DebugContext(ctx, "publishing payment to Kafka",
		"payment_id", p.ID,
		"topic", k.topic,
	)

	msg := kafkago.Message{
		Key:   []byte(p.ID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("payment.simulated")},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish payment %s to topic %s: %w", p.ID, k.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
