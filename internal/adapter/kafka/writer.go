package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/forecast-screen/internal/config"
	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// Writer publishes displayed forecasts to a Kafka topic.
// It implements screen.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a forecast view and writes it keyed by location, so all
// snapshots for one place land on the same partition.
func (w *Writer) Publish(ctx context.Context, view domain.WeatherView) error {
	msg, err := serializeToMessage(view)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write forecast snapshot: %w", err)
	}
	w.logger.Debug("forecast snapshot published", "topic", w.writer.Topic, "location", view.Location)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a WeatherView into a Kafka message.
func serializeToMessage(view domain.WeatherView) (kafkago.Message, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast view: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(view.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(view.Location)},
			{Key: "fetched_at", Value: []byte(view.FetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
