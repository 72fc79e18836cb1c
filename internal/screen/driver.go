package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/forecast-screen/internal/domain"
	"github.com/couchcryptid/forecast-screen/internal/observability"
)

var (
	ErrNotInErrorState = errors.New("screen is not in the error state")
	ErrFetchInFlight   = errors.New("a forecast fetch is already in flight")
	ErrNoContent       = errors.New("screen has no forecast content")
	ErrCardIndex       = errors.New("day card index out of range")
	ErrAlreadyStarted  = errors.New("screen already started")
	ErrClosed          = errors.New("screen closed")
)

// publishTimeout bounds a single snapshot publish.
const publishTimeout = 10 * time.Second

// Fetcher returns a forecast for a "lat,lon" pair.
type Fetcher interface {
	FetchForecast(ctx context.Context, coordinates string, days int) (domain.ForecastResponse, error)
}

// Publisher receives every forecast the screen displays.
type Publisher interface {
	Publish(ctx context.Context, view domain.WeatherView) error
}

// Options configures a Driver.
type Options struct {
	Coordinates string
	Days        int
	View        domain.ViewOptions
	// Publisher is optional; nil disables publishing.
	Publisher Publisher
}

// Driver owns the screen state machine: Loading -> Content | Error, user
// retries from Error, and per-card expand toggles.
//
// Fetches run on their own goroutine. Every state change is delivered on
// Updates() so the goroutine that paints the screen never races a fetch.
type Driver struct {
	fetcher Fetcher
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	state     State
	view      *domain.WeatherView
	expanded  []bool
	dismissed bool
	attemptID string
	inFlight  bool
	gen       uint64
	version   uint64
	started   bool
	closed    bool
	baseCtx   context.Context
	cancel    context.CancelFunc

	updates chan Snapshot
	ready   atomic.Bool
	wg      sync.WaitGroup
}

// New creates a Driver in the Loading state. Call Start to issue the first fetch.
func New(fetcher Fetcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Driver {
	return &Driver{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		state:   StateLoading,
		updates: make(chan Snapshot, 1),
	}
}

// Start enters Loading and triggers the first fetch. Fetches are canceled
// when ctx is done or the driver is closed.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.started {
		return ErrAlreadyStarted
	}
	d.started = true
	d.baseCtx = ctx
	d.metrics.DriverRunning.Set(1)
	d.logger.Info("screen started", "coordinates", d.opts.Coordinates, "days", d.opts.Days)

	d.beginFetchLocked()
	return nil
}

// Retry re-runs the fetch after a failure. It is only accepted in the error
// state and never while a fetch is outstanding.
func (d *Driver) Retry() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.closed:
		return ErrClosed
	case d.inFlight:
		d.metrics.RetryRequests.WithLabelValues("rejected").Inc()
		return ErrFetchInFlight
	case d.state != StateError:
		d.metrics.RetryRequests.WithLabelValues("rejected").Inc()
		return ErrNotInErrorState
	}

	d.metrics.RetryRequests.WithLabelValues("accepted").Inc()
	d.logger.Info("retry requested", "previous_attempt_id", d.attemptID)
	d.beginFetchLocked()
	return nil
}

// Dismiss closes the retry prompt and leaves the screen in the error state.
func (d *Driver) Dismiss() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.state != StateError {
		return ErrNotInErrorState
	}
	d.dismissed = true
	d.emitLocked()
	return nil
}

// Toggle flips the expanded state of day card i. It never triggers a fetch.
func (d *Driver) Toggle(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.state != StateContent {
		return ErrNoContent
	}
	if i < 0 || i >= len(d.expanded) {
		return ErrCardIndex
	}
	d.expanded[i] = !d.expanded[i]
	d.emitLocked()
	return nil
}

// Snapshot returns the current screen.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Updates delivers the latest snapshot after every change. Intermediate
// snapshots may be skipped when the reader is slow. Closed by Close.
func (d *Driver) Updates() <-chan Snapshot {
	return d.updates
}

// CheckReadiness returns nil once a forecast has been displayed.
func (d *Driver) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("no forecast has been displayed yet")
	}
	return nil
}

// Close cancels any outstanding fetch, waits for it to return and closes
// Updates. Results arriving after Close are discarded.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	close(d.updates)
	d.metrics.DriverRunning.Set(0)
	d.metrics.FetchInFlight.Set(0)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("screen closed")
	return nil
}

// beginFetchLocked enters Loading and starts a fetch for a new generation.
func (d *Driver) beginFetchLocked() {
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(d.baseCtx)
	d.cancel = cancel
	d.gen++
	d.inFlight = true
	d.attemptID = uuid.NewString()
	d.dismissed = false
	d.view = nil
	d.expanded = nil
	d.metrics.FetchInFlight.Set(1)
	d.transitionLocked(StateLoading)

	d.wg.Add(1)
	go d.fetch(ctx, d.gen, d.attemptID)
}

func (d *Driver) fetch(ctx context.Context, gen uint64, attemptID string) {
	defer d.wg.Done()

	d.logger.Info("fetching forecast", "attempt_id", attemptID)
	start := time.Now()
	resp, err := d.fetcher.FetchForecast(ctx, d.opts.Coordinates, d.opts.Days)

	var view domain.WeatherView
	if err == nil {
		view = domain.ToViewModel(resp, d.opts.View)
	}

	if !d.complete(gen, attemptID, view, err, time.Since(start)) {
		return
	}
	d.publish(ctx, attemptID, view)
}

// complete applies a fetch result. It returns true when the result was
// displayed as content.
func (d *Driver) complete(gen uint64, attemptID string, view domain.WeatherView, err error, elapsed time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.gen {
		d.logger.Debug("discarding stale fetch result", "attempt_id", attemptID)
		return false
	}
	d.inFlight = false
	d.metrics.FetchInFlight.Set(0)

	if err != nil {
		d.logger.Warn("forecast fetch failed", "attempt_id", attemptID, "duration", elapsed, "error", err)
		d.transitionLocked(StateError)
		return false
	}

	d.view = &view
	d.expanded = make([]bool, len(view.Days))
	d.ready.Store(true)
	d.logger.Info("forecast displayed",
		"attempt_id", attemptID,
		"location", view.Location,
		"days", len(view.Days),
		"hours", len(view.Hourly),
		"duration", elapsed,
	)
	d.transitionLocked(StateContent)
	return true
}

func (d *Driver) publish(ctx context.Context, attemptID string, view domain.WeatherView) {
	if d.opts.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.opts.Publisher.Publish(ctx, view); err != nil {
		d.metrics.PublishErrors.Inc()
		d.logger.Warn("publish forecast snapshot failed", "attempt_id", attemptID, "error", err)
		return
	}
	d.metrics.SnapshotsPublished.Inc()
}

func (d *Driver) transitionLocked(s State) {
	d.state = s
	d.metrics.StateTransitions.WithLabelValues(s.String()).Inc()
	for _, name := range []State{StateLoading, StateContent, StateError} {
		v := 0.0
		if name == s {
			v = 1
		}
		d.metrics.ScreenState.WithLabelValues(name.String()).Set(v)
	}
	d.emitLocked()
}

// emitLocked replaces any unread snapshot with the current one. Only
// holders of mu send, so the buffered send never blocks.
func (d *Driver) emitLocked() {
	d.version++
	snap := d.snapshotLocked()
	select {
	case <-d.updates:
	default:
	}
	d.updates <- snap
}

func (d *Driver) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     d.state,
		View:      d.view,
		Dismissed: d.dismissed,
		AttemptID: d.attemptID,
		Version:   d.version,
	}
	if d.expanded != nil {
		snap.Expanded = append([]bool(nil), d.expanded...)
	}
	if d.state == StateError {
		snap.Message = ErrorMessage
	}
	return snap
}
