// Command validate checks a captured WeatherAPI forecast.json against the
// screen's decoding rules and view-model invariants. It is useful when the
// provider changes its payload or when refreshing local fixtures.
//
// Usage:
//
//	curl -s "https://api.weatherapi.com/v1/forecast.json?key=$WEATHER_API_KEY&q=55.7569,37.6151&days=3" > forecast.json
//	go run ./cmd/validate -file forecast.json -hourly-limit 24
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/forecast-screen/internal/adapter/weatherapi"
	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to a captured forecast.json response")
	hourlyLimit := flag.Int("hourly-limit", domain.DefaultHourlyLimit, "hourly strip length")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	body, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", *file, err)
		os.Exit(1)
	}

	if code := run(os.Stdout, body, *hourlyLimit); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, body []byte, hourlyLimit int) int {
	// Fixed clock so repeated runs print identical views.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Fprintln(out, "=== Forecast Payload Validation ===")

	resp, err := weatherapi.Decode(body)
	if err != nil {
		fmt.Fprintf(out, "\nDecoding FAILED: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHourly(resp, hourlyLimit),
		validateDayCards(resp),
		validateCurrent(resp),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nLocation: %s, %d days, %d hours on day one\n",
		resp.Location.Name, len(resp.Days), firstDayHours(resp))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func firstDayHours(resp domain.ForecastResponse) int {
	if len(resp.Days) == 0 {
		return 0
	}
	return len(resp.Days[0].Hours)
}

// validateHourly checks the hourly strip is the first N hours of day one
// with parseable HH:MM labels.
func validateHourly(resp domain.ForecastResponse, limit int) *phase {
	p := &phase{name: "Hourly strip"}
	view := domain.ToViewModel(resp, domain.ViewOptions{HourlyLimit: limit})

	want := min(firstDayHours(resp), limit)
	if len(view.Hourly) != want {
		p.errorf("hourly strip has %d cells, want %d", len(view.Hourly), want)
		return p
	}
	for i, h := range view.Hourly {
		if _, err := time.Parse("15:04", h.Label); err != nil {
			p.errorf("hour %d: label %q is not HH:MM", i, h.Label)
		}
		src := resp.Days[0].Hours[i]
		if h.RoundedTemp != domain.RoundHalfUp(src.TemperatureCelsius) {
			p.errorf("hour %d: rounded %d from %.1f", i, h.RoundedTemp, src.TemperatureCelsius)
		}
	}
	return p
}

// validateDayCards checks one card per day with parseable dates in order.
func validateDayCards(resp domain.ForecastResponse) *phase {
	p := &phase{name: "Day cards"}
	view := domain.ToViewModel(resp, domain.ViewOptions{})

	if len(view.Days) != len(resp.Days) {
		p.errorf("%d cards for %d days", len(view.Days), len(resp.Days))
		return p
	}
	var prev time.Time
	for i, card := range view.Days {
		d, err := time.Parse(time.DateOnly, card.Date)
		if err != nil {
			p.errorf("card %d: date %q is not YYYY-MM-DD", i, card.Date)
			continue
		}
		if i > 0 && !d.After(prev) {
			p.errorf("card %d: date %s does not follow %s", i, card.Date, prev.Format(time.DateOnly))
		}
		prev = d
		if card.Condition == "" {
			p.errorf("card %d: empty condition", i)
		}
	}
	return p
}

func validateCurrent(resp domain.ForecastResponse) *phase {
	p := &phase{name: "Current conditions"}
	view := domain.ToViewModel(resp, domain.ViewOptions{})

	if resp.Location.Name == "" {
		p.errorf("empty location name")
	}
	if view.Current.Condition == "" {
		p.errorf("empty current condition")
	}
	if t := resp.Current.TemperatureCelsius; t < -90 || t > 60 {
		p.errorf("current temperature %.1f°C is implausible", t)
	}
	return p
}
