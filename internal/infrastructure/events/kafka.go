package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/giftguide/backend/internal/domain"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes cart events to a Kafka topic, keyed by modal id
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish writes the event as JSON
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.CartEvent) error {
	msg, err := encodeCartEvent(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("[Kafka] failed to write %s to %s: %v", event.Name, p.topic, err)
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeCartEvent(event domain.CartEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.ModalID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	}, nil
}
