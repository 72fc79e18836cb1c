package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/forecast-screen/internal/config"
	"github.com/couchcryptid/forecast-screen/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	view := domain.WeatherView{
		Title:     "Weather in Moscow",
		Location:  "Moscow",
		Current:   domain.CurrentView{RoundedTemp: 19, TemperatureLabel: "19°C", Condition: "Partly cloudy"},
		Hourly:    []domain.HourView{{Label: "14:00", RoundedTemp: 21}},
		Days:      []domain.DayCard{{Date: "2024-05-01", RoundedTemp: 20, Condition: "Sunny"}},
		Style:     domain.StyleDetailed,
		FetchedAt: fetched,
	}

	msg, err := serializeToMessage(view)
	require.NoError(t, err)

	assert.Equal(t, []byte("Moscow"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("Moscow"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-05-01T09:30:00Z"), msg.Headers[1].Value)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "Weather in Moscow", body["title"])
	assert.Contains(t, string(msg.Value), `"rounded_temp":19`)
	assert.Contains(t, string(msg.Value), `"label":"14:00"`)
}

func TestNewWriter_UsesConfig(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers: []string{"broker1:9092", "broker2:9092"},
		KafkaTopic:   "forecast-snapshots",
	}

	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "forecast-snapshots", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
	assert.Contains(t, w.writer.Addr.String(), "broker1:9092")
}
