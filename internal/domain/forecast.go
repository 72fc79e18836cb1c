package domain

// ForecastResponse is one forecast returned by the provider.
// Days is non-empty for a well-formed response, but consumers must not rely on it.
type ForecastResponse struct {
	Location LocationInfo
	Current  CurrentConditions
	Days     []DayForecast
}

// LocationInfo identifies the resolved location.
type LocationInfo struct {
	Name    string
	Region  string
	Country string
}

// CurrentConditions holds the observation at request time.
type CurrentConditions struct {
	TemperatureCelsius float64
	ConditionText      string
}

// DayForecast is the forecast for one calendar day.
type DayForecast struct {
	Date                      string // "YYYY-MM-DD"
	AverageTemperatureCelsius float64
	ConditionText             string
	Hours                     []HourForecast // one per hour, 24 expected
}

// HourForecast is the forecast for one hour.
type HourForecast struct {
	Timestamp          string // "YYYY-MM-DD HH:MM"
	TemperatureCelsius float64
}
