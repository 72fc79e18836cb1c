package weatherapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/couchcryptid/forecast-screen/internal/domain"
	"github.com/couchcryptid/forecast-screen/internal/observability"
)

// DefaultBaseURL is the WeatherAPI.com v1 endpoint root.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// maxErrorBody caps how much of a non-2xx body ends up in an error message.
const maxErrorBody = 512

// Client fetches forecasts from WeatherAPI.com.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a WeatherAPI client. The http.Client is owned by the
// caller; its Timeout bounds each request.
func NewClient(apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchForecast requests a days-long forecast for a "lat,lon" pair.
// Every failure is returned as a *domain.FetchError.
func (c *Client) FetchForecast(ctx context.Context, coordinates string, days int) (domain.ForecastResponse, error) {
	params := url.Values{
		"key":  {c.apiKey},
		"q":    {coordinates},
		"days": {strconv.Itoa(days)},
	}
	fullURL := c.baseURL + "/forecast.json?" + params.Encode()

	start := time.Now()
	resp, err := c.doRequest(ctx, fullURL)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		var fe *domain.FetchError
		switch {
		case ctx.Err() != nil:
			outcome = "canceled"
		case errors.As(err, &fe):
			outcome = string(fe.Reason)
		}
	}
	c.metrics.FetchRequests.WithLabelValues(outcome).Inc()

	if err != nil {
		c.logger.Debug("forecast request failed", "coordinates", coordinates, "days", days, "error", err)
		return domain.ForecastResponse{}, err
	}
	c.logger.Debug("forecast request succeeded",
		"location", resp.Location.Name,
		"days", len(resp.Days),
		"duration", time.Since(start),
	)
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.ForecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonNetwork, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonNetwork, fmt.Errorf("forecast request: %w", redact(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.ForecastResponse{}, &domain.FetchError{
			Reason:     domain.ReasonStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("weatherapi error: %s", body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonNetwork, fmt.Errorf("read body: %w", err))
	}

	return Decode(body)
}

// Decode parses a forecast.json body and checks its required fields.
// Failures are *domain.FetchError with ReasonDecode.
func Decode(body []byte) (domain.ForecastResponse, error) {
	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonDecode, fmt.Errorf("decode response: %w", err))
	}
	forecast, err := payload.toDomain()
	if err != nil {
		return domain.ForecastResponse{}, domain.NewFetchError(domain.ReasonDecode, err)
	}
	return forecast, nil
}

// redact drops the request URL from transport errors so the API key never reaches logs.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
