package domain

import (
	"errors"
	"fmt"
)

// ErrFetch matches every FetchError via errors.Is.
var ErrFetch = errors.New("fetch forecast")

// FetchReason classifies a fetch failure for logs and metrics.
type FetchReason string

const (
	ReasonNetwork FetchReason = "network"
	ReasonStatus  FetchReason = "status"
	ReasonDecode  FetchReason = "decode"
)

// FetchError is the single error kind surfaced by a forecast fetch.
type FetchError struct {
	Reason     FetchReason
	StatusCode int // set when Reason is ReasonStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("fetch forecast: %s: status %d: %v", e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch forecast: %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// NewFetchError wraps err as a FetchError with the given reason.
func NewFetchError(reason FetchReason, err error) *FetchError {
	return &FetchError{Reason: reason, Err: err}
}
