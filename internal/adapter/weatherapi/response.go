package weatherapi

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// WeatherAPI forecast.json response types. Pointer fields are required;
// a nil pointer after decoding means the field was missing.

type response struct {
	Location *location `json:"location"`
	Current  *current  `json:"current"`
	Forecast *forecast `json:"forecast"`
}

type location struct {
	Name    *string `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
}

type current struct {
	TempC     *float64   `json:"temp_c"`
	Condition *condition `json:"condition"`
}

type condition struct {
	Text string `json:"text"`
}

type forecast struct {
	ForecastDay []forecastDay `json:"forecastday"`
}

type forecastDay struct {
	Date *string `json:"date"`
	Day  *day    `json:"day"`
	Hour []hour  `json:"hour"`
}

type day struct {
	AvgTempC  *float64   `json:"avgtemp_c"`
	Condition *condition `json:"condition"`
}

type hour struct {
	Time  *string  `json:"time"`
	TempC *float64 `json:"temp_c"`
}

var errMissingField = errors.New("missing required field")

func missing(path string) error {
	return fmt.Errorf("%w: %s", errMissingField, path)
}

// toDomain validates required fields and converts the payload.
func (r response) toDomain() (domain.ForecastResponse, error) {
	switch {
	case r.Location == nil:
		return domain.ForecastResponse{}, missing("location")
	case r.Location.Name == nil:
		return domain.ForecastResponse{}, missing("location.name")
	case r.Current == nil:
		return domain.ForecastResponse{}, missing("current")
	case r.Current.TempC == nil:
		return domain.ForecastResponse{}, missing("current.temp_c")
	case r.Current.Condition == nil:
		return domain.ForecastResponse{}, missing("current.condition")
	case r.Forecast == nil:
		return domain.ForecastResponse{}, missing("forecast")
	case r.Forecast.ForecastDay == nil:
		return domain.ForecastResponse{}, missing("forecast.forecastday")
	}

	out := domain.ForecastResponse{
		Location: domain.LocationInfo{
			Name:    *r.Location.Name,
			Region:  r.Location.Region,
			Country: r.Location.Country,
		},
		Current: domain.CurrentConditions{
			TemperatureCelsius: *r.Current.TempC,
			ConditionText:      r.Current.Condition.Text,
		},
		Days: make([]domain.DayForecast, 0, len(r.Forecast.ForecastDay)),
	}

	for i, fd := range r.Forecast.ForecastDay {
		d, err := fd.toDomain(i)
		if err != nil {
			return domain.ForecastResponse{}, err
		}
		out.Days = append(out.Days, d)
	}
	return out, nil
}

func (fd forecastDay) toDomain(i int) (domain.DayForecast, error) {
	prefix := fmt.Sprintf("forecast.forecastday[%d]", i)
	switch {
	case fd.Date == nil:
		return domain.DayForecast{}, missing(prefix + ".date")
	case fd.Day == nil:
		return domain.DayForecast{}, missing(prefix + ".day")
	case fd.Day.AvgTempC == nil:
		return domain.DayForecast{}, missing(prefix + ".day.avgtemp_c")
	case fd.Day.Condition == nil:
		return domain.DayForecast{}, missing(prefix + ".day.condition")
	}

	d := domain.DayForecast{
		Date:                      *fd.Date,
		AverageTemperatureCelsius: *fd.Day.AvgTempC,
		ConditionText:             fd.Day.Condition.Text,
		Hours:                     make([]domain.HourForecast, 0, len(fd.Hour)),
	}
	for j, h := range fd.Hour {
		if h.Time == nil {
			return domain.DayForecast{}, missing(fmt.Sprintf("%s.hour[%d].time", prefix, j))
		}
		if h.TempC == nil {
			return domain.DayForecast{}, missing(fmt.Sprintf("%s.hour[%d].temp_c", prefix, j))
		}
		d.Hours = append(d.Hours, domain.HourForecast{Timestamp: *h.Time, TemperatureCelsius: *h.TempC})
	}
	return d, nil
}
