// Package ingest handles Kafka event production for completed ingestion runs.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer handles sending ingestion run events to Kafka.
type Producer struct {
	Writer *kafka.Writer
}

// NewProducer initializes a new Kafka writer for ingestion events.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishCompleted sends the run-completed event to the Kafka topic.
func (p *Producer) PublishCompleted(ctx context.Context, event CompletedEvent) error {
	event.EventType = "kev.ingest.completed"
	event.EventID = uuid.New().String()
	event.EventTime = time.Now().UTC()
	event.SchemaVersion = "v1"

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RunID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer.
func (p *Producer) Close() error {
	return p.Writer.Close()
}
