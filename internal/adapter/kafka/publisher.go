package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/casamapa/price-map-service/internal/pipeline"
)

// Publisher pushes reconciled price tables to a Kafka topic so downstream
// consumers (cache warmers, exporters) pick up fresh tables without polling.
// It implements pipeline.TablePublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishTable serializes a pipeline result and publishes it keyed by level,
// so consumers that only care about one granularity can filter on the key.
func (p *Publisher) PublishTable(ctx context.Context, result pipeline.Result) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s table: %w", result.LevelName, err)
	}
	p.logger.Debug("published price table", "level", result.LevelName, "regions", len(result.Regions))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a result into a Kafka message.
func serializeToMessage(result pipeline.Result) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize price table: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.LevelName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "level", Value: []byte(result.LevelName)},
			{Key: "generated_at", Value: []byte(result.GeneratedAt.Format(time.RFC3339))},
			{Key: "degraded", Value: []byte(fmt.Sprintf("%t", result.Degraded))},
		},
	}, nil
}
