package weatherapi

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// Fetcher is the forecast source wrapped by RateLimitedFetcher.
type Fetcher interface {
	FetchForecast(ctx context.Context, coordinates string, days int) (domain.ForecastResponse, error)
}

// RateLimitedFetcher wraps a Fetcher with a token bucket so repeated user
// retries cannot hammer the provider.
type RateLimitedFetcher struct {
	inner   Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps requests per second with the given burst.
func NewRateLimitedFetcher(inner Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchForecast waits for a token, then forwards the call. A wait aborted by
// ctx surfaces as a network FetchError.
func (r *RateLimitedFetcher) FetchForecast(ctx context.Context, coordinates string, days int) (domain.ForecastResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonNetwork, fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.inner.FetchForecast(ctx, coordinates, days)
}

var (
	_ Fetcher = (*Client)(nil)
	_ Fetcher = (*RateLimitedFetcher)(nil)
)
