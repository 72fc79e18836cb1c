package weatherapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/forecast-screen/internal/domain"
)

type countingFetcher struct {
	calls int
}

func (f *countingFetcher) FetchForecast(_ context.Context, _ string, _ int) (domain.ForecastResponse, error) {
	f.calls++
	return domain.ForecastResponse{Location: domain.LocationInfo{Name: "Moscow"}}, nil
}

func TestRateLimitedFetcher_AllowsBurst(t *testing.T) {
	inner := &countingFetcher{}
	f := NewRateLimitedFetcher(inner, 0.001, 2)

	for i := 0; i < 2; i++ {
		resp, err := f.FetchForecast(context.Background(), testCoordinates, 3)
		require.NoError(t, err)
		assert.Equal(t, "Moscow", resp.Location.Name)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedFetcher_WaitCanceled(t *testing.T) {
	inner := &countingFetcher{}
	f := NewRateLimitedFetcher(inner, 0.001, 1)

	_, err := f.FetchForecast(context.Background(), testCoordinates, 3)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = f.FetchForecast(ctx, testCoordinates, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, inner.calls)
}
