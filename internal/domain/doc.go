// Package domain models a WeatherAPI.com forecast and its display-ready projection.
//
// # Data Source
//
// Forecasts come from the WeatherAPI.com forecast endpoint
// (https://api.weatherapi.com/v1/forecast.json). One request returns the
// resolved location, current conditions and a forecast span of N days, each
// with 24 hourly entries.
//
// # Conventions
//
// Timestamps:
//
//	Day dates are "YYYY-MM-DD". Hour timestamps are "YYYY-MM-DD HH:MM" in the
//	location's local time. The hourly strip shows only the "HH:MM" part.
//
// Temperatures:
//
//	Celsius as provided. Display values are rounded half up: 21.5 → 22,
//	21.4 → 21, -2.5 → -2. See [RoundHalfUp].
//
// Hourly strip:
//
//	Built from the first day only, limited to the first ViewOptions.HourlyLimit
//	entries. A response with no days yields an empty strip rather than an error.
//
// # Errors
//
// Every failure to obtain a forecast is a [*FetchError]. The Reason field
// separates network, status and decode failures for logs and metrics, but the
// screen treats all of them the same way.
package domain
