package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2024-05-01"

func moscowResponse() ForecastResponse {
	return ForecastResponse{
		Location: LocationInfo{Name: "Moscow", Region: "Moscow City", Country: "Russia"},
		Current:  CurrentConditions{TemperatureCelsius: 18.7, ConditionText: "Partly cloudy"},
		Days: []DayForecast{
			{
				Date:                      testDate,
				AverageTemperatureCelsius: 20.0,
				ConditionText:             "Sunny",
				Hours:                     makeHours(testDate, 24),
			},
		},
	}
}

func makeHours(date string, n int) []HourForecast {
	hours := make([]HourForecast, 0, n)
	for i := 0; i < n; i++ {
		hours = append(hours, HourForecast{
			Timestamp:          fmt.Sprintf("%s %02d:00", date, i),
			TemperatureCelsius: 10 + float64(i)/2,
		})
	}
	return hours
}

func TestToViewModel_Moscow(t *testing.T) {
	fixed := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	view := ToViewModel(moscowResponse(), ViewOptions{HourlyLimit: 8})

	assert.Contains(t, view.Title, "Moscow")
	assert.Equal(t, 19, view.Current.RoundedTemp)
	assert.Equal(t, "19°C", view.Current.TemperatureLabel)
	assert.Equal(t, StyleDetailed, view.Style)
	assert.Equal(t, fixed, view.FetchedAt)

	wantDays := []DayCard{{Date: testDate, RoundedTemp: 20, Condition: "Sunny"}}
	if diff := cmp.Diff(wantDays, view.Days); diff != "" {
		t.Fatalf("day cards mismatch (-want +got):\n%s", diff)
	}

	wantHours := []HourView{
		{Label: "00:00", RoundedTemp: 10},
		{Label: "01:00", RoundedTemp: 11},
		{Label: "02:00", RoundedTemp: 11},
		{Label: "03:00", RoundedTemp: 12},
		{Label: "04:00", RoundedTemp: 12},
		{Label: "05:00", RoundedTemp: 13},
		{Label: "06:00", RoundedTemp: 13},
		{Label: "07:00", RoundedTemp: 14},
	}
	if diff := cmp.Diff(wantHours, view.Hourly); diff != "" {
		t.Fatalf("hourly strip mismatch (-want +got):\n%s", diff)
	}
}

func TestToViewModel_HourlyLength(t *testing.T) {
	tests := []struct {
		name      string
		available int
		limit     int
		expected  int
	}{
		{"limit below available", 24, 8, 8},
		{"limit equals available", 24, 24, 24},
		{"limit above available", 5, 24, 5},
		{"zero limit uses default", 30, 0, DefaultHourlyLimit},
		{"no hours", 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := moscowResponse()
			resp.Days[0].Hours = makeHours(testDate, tt.available)
			view := ToViewModel(resp, ViewOptions{HourlyLimit: tt.limit})
			assert.Len(t, view.Hourly, tt.expected)
		})
	}
}

func TestToViewModel_DayCardPerDay(t *testing.T) {
	resp := moscowResponse()
	resp.Days = append(resp.Days,
		DayForecast{Date: "2024-05-02", AverageTemperatureCelsius: 14.5, ConditionText: "Rain"},
		DayForecast{Date: "2024-05-03", AverageTemperatureCelsius: 12.49, ConditionText: "Overcast"},
	)

	view := ToViewModel(resp, ViewOptions{HourlyLimit: 24})

	require.Len(t, view.Days, 3)
	assert.Equal(t, 15, view.Days[1].RoundedTemp)
	assert.Equal(t, "Rain", view.Days[1].Condition)
	assert.Equal(t, 12, view.Days[2].RoundedTemp)
	assert.Equal(t, "2024-05-03", view.Days[2].Date)
}

func TestToViewModel_NoDays(t *testing.T) {
	resp := moscowResponse()
	resp.Days = nil

	var view WeatherView
	require.NotPanics(t, func() {
		view = ToViewModel(resp, ViewOptions{HourlyLimit: 8})
	})
	assert.NotNil(t, view.Hourly)
	assert.Empty(t, view.Hourly)
	assert.Empty(t, view.Days)
	assert.Equal(t, 19, view.Current.RoundedTemp)
}

func TestToViewModel_CompactStyle(t *testing.T) {
	view := ToViewModel(moscowResponse(), ViewOptions{Style: StyleCompact})

	assert.Equal(t, StyleCompact, view.Style)
	assert.Equal(t, "18.7°C", view.Current.TemperatureLabel)
	assert.Equal(t, 19, view.Current.RoundedTemp)
}

func TestToViewModel_UnknownStyleFallsBackToDetailed(t *testing.T) {
	view := ToViewModel(moscowResponse(), ViewOptions{Style: "fancy"})
	assert.Equal(t, StyleDetailed, view.Style)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{21.5, 22},
		{21.4, 21},
		{21.49999, 21},
		{0, 0},
		{-0.4, 0},
		{-0.5, 0},
		{-2.5, -2},
		{-2.6, -3},
		{18.7, 19},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundHalfUp(tt.in))
		})
	}
}

func TestToViewModel_RoundsCurrentTemperature(t *testing.T) {
	resp := moscowResponse()

	resp.Current.TemperatureCelsius = 21.5
	assert.Equal(t, 22, ToViewModel(resp, ViewOptions{}).Current.RoundedTemp)

	resp.Current.TemperatureCelsius = 21.4
	assert.Equal(t, 21, ToViewModel(resp, ViewOptions{}).Current.RoundedTemp)
}

func TestTimeLabel(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"date and time", "2024-05-01 14:00", "14:00"},
		{"midnight", "2024-05-01 00:00", "00:00"},
		{"no date prefix", "09:30", "09:30"},
		{"surrounding whitespace", " 2024-05-01 23:00 ", "23:00"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeLabel(tt.in))
		})
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(NewFetchError(ReasonNetwork, cause))

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network")

	statusErr := &FetchError{Reason: ReasonStatus, StatusCode: 403, Err: errors.New("forbidden")}
	assert.Contains(t, statusErr.Error(), "403")

	var fe *FetchError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", statusErr), &fe)
	assert.Equal(t, ReasonStatus, fe.Reason)
}
