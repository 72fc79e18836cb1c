//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/forecast-screen/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-screen/internal/adapter/weatherapi"
	"github.com/couchcryptid/forecast-screen/internal/config"
	"github.com/couchcryptid/forecast-screen/internal/domain"
	"github.com/couchcryptid/forecast-screen/internal/observability"
	"github.com/couchcryptid/forecast-screen/internal/screen"
)

const testTopic = "test-forecast-snapshots"

const moscowBody = `{
  "location": {"name": "Moscow", "region": "Moscow City", "country": "Russia"},
  "current": {"temp_c": 18.7, "condition": {"text": "Partly cloudy"}},
  "forecast": {"forecastday": [
    {"date": "2024-05-01", "day": {"avgtemp_c": 20.0, "condition": {"text": "Sunny"}},
     "hour": [{"time": "2024-05-01 00:00", "temp_c": 12.4}, {"time": "2024-05-01 01:00", "temp_c": 11.5}]},
    {"date": "2024-05-02", "day": {"avgtemp_c": 16.2, "condition": {"text": "Rain"}}, "hour": []}
  ]}
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("forecast-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestScreenPublishesSnapshot drives the screen against a stub provider and
// reads the displayed forecast back from Kafka.
func TestScreenPublishesSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(moscowBody))
	}))
	t.Cleanup(provider.Close)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	client := weatherapi.NewClient("integration-key", provider.URL, &http.Client{Timeout: 5 * time.Second}, discardLogger(), metrics)

	driver := screen.New(client, screen.Options{
		Coordinates: "55.7569,37.6151",
		Days:        2,
		View:        domain.ViewOptions{HourlyLimit: 24, Style: domain.StyleDetailed},
		Publisher:   writer,
	}, discardLogger(), metrics)
	t.Cleanup(func() { _ = driver.Close() })

	require.NoError(t, driver.Start(ctx))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 60*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read snapshot")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "Moscow", string(msg.Key))
	assert.Equal(t, "Moscow", headers["location"])
	_, err = time.Parse(time.RFC3339, headers["fetched_at"])
	assert.NoError(t, err, "fetched_at should be valid RFC3339")

	var view domain.WeatherView
	require.NoError(t, json.Unmarshal(msg.Value, &view))
	assert.Equal(t, "Weather in Moscow", view.Title)
	assert.Equal(t, 19, view.Current.RoundedTemp)
	require.Len(t, view.Days, 2)
	assert.Equal(t, 16, view.Days[1].RoundedTemp)
	require.Len(t, view.Hourly, 2)
	assert.Equal(t, "00:00", view.Hourly[0].Label)

	snap := driver.Snapshot()
	assert.Equal(t, screen.StateContent, snap.State)
	assert.Equal(t, []bool{false, false}, snap.Expanded)
}
