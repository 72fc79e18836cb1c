package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultHourlyLimit is the hourly strip length used when none is configured.
const DefaultHourlyLimit = 24

// CardStyle selects how much detail the screen shows.
type CardStyle string

const (
	// StyleDetailed shows integer temperatures and the condition on expanded cards.
	StyleDetailed CardStyle = "detailed"
	// StyleCompact shows the current temperature with one decimal and omits
	// the condition on expanded cards.
	StyleCompact CardStyle = "compact"
)

// ViewOptions tunes the mapping from a response to a WeatherView.
type ViewOptions struct {
	HourlyLimit int
	Style       CardStyle
}

// WeatherView is the display-ready projection of a ForecastResponse.
type WeatherView struct {
	Title     string      `json:"title"`
	Location  string      `json:"location"`
	Current   CurrentView `json:"current"`
	Hourly    []HourView  `json:"hourly"`
	Days      []DayCard   `json:"days"`
	Style     CardStyle   `json:"style"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// CurrentView is the current-conditions badge.
type CurrentView struct {
	RoundedTemp      int    `json:"rounded_temp"`
	TemperatureLabel string `json:"temperature_label"`
	Condition        string `json:"condition"`
}

// HourView is one cell of the hourly strip.
type HourView struct {
	Label       string `json:"label"`
	RoundedTemp int    `json:"rounded_temp"`
}

// DayCard is one entry of the multi-day list.
type DayCard struct {
	Date        string `json:"date"`
	RoundedTemp int    `json:"rounded_temp"`
	Condition   string `json:"condition"`
}

// ToViewModel maps a response into a WeatherView. It never fails: a response
// without days produces an empty hourly strip and no cards.
func ToViewModel(resp ForecastResponse, opts ViewOptions) WeatherView {
	limit := opts.HourlyLimit
	if limit <= 0 {
		limit = DefaultHourlyLimit
	}
	style := opts.Style
	if style != StyleCompact {
		style = StyleDetailed
	}

	view := WeatherView{
		Title:    "Weather in " + resp.Location.Name,
		Location: resp.Location.Name,
		Current: CurrentView{
			RoundedTemp:      RoundHalfUp(resp.Current.TemperatureCelsius),
			TemperatureLabel: temperatureLabel(resp.Current.TemperatureCelsius, style),
			Condition:        resp.Current.ConditionText,
		},
		Hourly:    hourlyStrip(resp.Days, limit),
		Days:      make([]DayCard, 0, len(resp.Days)),
		Style:     style,
		FetchedAt: clock.Now(),
	}

	for _, d := range resp.Days {
		view.Days = append(view.Days, DayCard{
			Date:        d.Date,
			RoundedTemp: RoundHalfUp(d.AverageTemperatureCelsius),
			Condition:   d.ConditionText,
		})
	}
	return view
}

// hourlyStrip takes the first limit hours of the first day.
func hourlyStrip(days []DayForecast, limit int) []HourView {
	if len(days) == 0 {
		return []HourView{}
	}
	hours := days[0].Hours
	if len(hours) > limit {
		hours = hours[:limit]
	}
	strip := make([]HourView, 0, len(hours))
	for _, h := range hours {
		strip = append(strip, HourView{
			Label:       TimeLabel(h.Timestamp),
			RoundedTemp: RoundHalfUp(h.TemperatureCelsius),
		})
	}
	return strip
}

// TimeLabel strips the date prefix from an hour timestamp:
// "2024-05-01 14:00" -> "14:00". Values without a date prefix are returned trimmed.
func TimeLabel(timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if i := strings.LastIndexByte(timestamp, ' '); i >= 0 {
		return timestamp[i+1:]
	}
	return timestamp
}

// RoundHalfUp rounds to the nearest integer, ties toward positive infinity.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func temperatureLabel(v float64, style CardStyle) string {
	if style == StyleCompact {
		return strconv.FormatFloat(v, 'f', 1, 64) + "°C"
	}
	return strconv.Itoa(RoundHalfUp(v)) + "°C"
}
