package main

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

type handlerOptions struct {
	FailFirst  int
	FailStatus int
	Latency    time.Duration
}

type handler struct {
	opts     handlerOptions
	requests atomic.Int64
	mux      *http.ServeMux
}

func newHandler(opts handlerOptions) *handler {
	h := &handler{opts: opts, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /v1/forecast.json", h.handleForecast)
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	n := h.requests.Add(1)

	if h.opts.Latency > 0 {
		select {
		case <-time.After(h.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	q := r.URL.Query()
	if q.Get("key") == "" {
		writeError(w, http.StatusUnauthorized, 1002, "API key is invalid or not provided.")
		return
	}
	if q.Get("q") == "" {
		writeError(w, http.StatusBadRequest, 1003, "Parameter q is missing.")
		return
	}
	if n <= int64(h.opts.FailFirst) {
		writeError(w, h.opts.FailStatus, 9999, "Internal application error.")
		return
	}

	days := 3
	if raw := q.Get("days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 {
			writeError(w, http.StatusBadRequest, 1005, "Parameter days is invalid.")
			return
		}
		days = min(d, 14)
	}

	writeJSON(w, http.StatusOK, moscowFixture(days))
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	var body apiError
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

type fixtureCondition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type fixtureHour struct {
	Time  string  `json:"time"`
	TempC float64 `json:"temp_c"`
}

type fixtureDay struct {
	Date string `json:"date"`
	Day  struct {
		AvgTempC  float64          `json:"avgtemp_c"`
		Condition fixtureCondition `json:"condition"`
	} `json:"day"`
	Hour []fixtureHour `json:"hour"`
}

type fixture struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64          `json:"temp_c"`
		Condition fixtureCondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []fixtureDay `json:"forecastday"`
	} `json:"forecast"`
}

var fixtureStart = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

var fixtureConditions = []fixtureCondition{
	{Text: "Sunny", Code: 1000},
	{Text: "Partly cloudy", Code: 1003},
	{Text: "Patchy rain possible", Code: 1063},
}

// moscowFixture builds a deterministic forecast starting 2024-05-01.
func moscowFixture(days int) fixture {
	var f fixture
	f.Location.Name = "Moscow"
	f.Location.Region = "Moscow City"
	f.Location.Country = "Russia"
	f.Current.TempC = 18.7
	f.Current.Condition = fixtureConditions[1]

	f.Forecast.ForecastDay = make([]fixtureDay, days)
	for i := range days {
		date := fixtureStart.AddDate(0, 0, i)
		d := fixtureDay{Date: date.Format(time.DateOnly)}
		d.Day.AvgTempC = 20.0 - 1.5*float64(i)
		d.Day.Condition = fixtureConditions[i%len(fixtureConditions)]

		d.Hour = make([]fixtureHour, 24)
		for h := range 24 {
			d.Hour[h] = fixtureHour{
				Time:  date.Add(time.Duration(h) * time.Hour).Format("2006-01-02 15:04"),
				TempC: hourlyTemp(i, h),
			}
		}
		f.Forecast.ForecastDay[i] = d
	}
	return f
}

// hourlyTemp is a coarse diurnal curve: coolest at 04:00, warmest at 16:00.
func hourlyTemp(day, hour int) float64 {
	dist := hour - 16
	if dist < 0 {
		dist = -dist
	}
	if dist > 12 {
		dist = 24 - dist
	}
	base := 23.0 - 1.5*float64(day)
	t := base - float64(dist)*0.9
	// One decimal, like the real API.
	return math.Round(t*10) / 10
}
