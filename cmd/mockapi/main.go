// Command mockapi serves a WeatherAPI-compatible /v1/forecast.json for local
// development. Point WEATHER_BASE_URL at it to run the screen without a real
// API key, or use -fail-first to exercise the error and retry path.
//
// Usage:
//
//	go run ./cmd/mockapi -addr :8090 -fail-first 1
//	WEATHER_BASE_URL=http://localhost:8090/v1 WEATHER_API_KEY=dev go run ./cmd/forecast
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":8090", "listen address")
	failFirst := flag.Int("fail-first", 0, "number of initial requests answered with -fail-status")
	failStatus := flag.Int("fail-status", http.StatusServiceUnavailable, "status code for failed requests")
	latency := flag.Duration("latency", 0, "delay before every response")
	flag.Parse()

	if *failFirst < 0 {
		return errors.New("-fail-first must not be negative")
	}
	if *failStatus < 400 || *failStatus > 599 {
		return fmt.Errorf("-fail-status %d is not an error status", *failStatus)
	}

	h := newHandler(handlerOptions{
		FailFirst:  *failFirst,
		FailStatus: *failStatus,
		Latency:    *latency,
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("mock weather api listening on %s", *addr)
	return srv.ListenAndServe()
}
