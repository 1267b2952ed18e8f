// Package reconciler keeps displayed review status tags in step with the API.
//
// A Reconciler polls every indicator whose text is still in flight, applies a
// new tag only when the status changed, and stops once a pass leaves nothing
// in flight. Passes never overlap.
package reconciler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"codereview-frontend/internal/shared/metrics"
	"codereview-frontend/internal/shared/telemetry"
	"codereview-frontend/internal/view"
)

// DefaultInterval is the time between passes.
const DefaultInterval = 10 * time.Second

const defaultConcurrency = 4

// ErrPassInFlight is returned by Pass when another pass has not finished.
var ErrPassInFlight = errors.New("reconciliation pass already in flight")

// Board is the display being reconciled.
type Board interface {
	Indicators() []Indicator
	// Apply replaces text, label and class of one indicator in a single step.
	Apply(id string, tag view.StatusTag)
}

// StatusSource returns the authoritative status for a review.
type StatusSource interface {
	Status(ctx context.Context, id string) (string, error)
}

// Options tune a Reconciler. Zero values pick the defaults.
type Options struct {
	Interval    time.Duration
	Concurrency int
}

// PassResult summarises one reconciliation pass.
type PassResult struct {
	Fetched   int
	Updated   int
	Failed    int
	Remaining int
}

// Reconciler runs reconciliation passes over a Board.
type Reconciler struct {
	board       Board
	source      StatusSource
	interval    time.Duration
	concurrency int

	inFlight atomic.Bool
	applyMu  sync.Mutex
}

// New constructs a Reconciler.
func New(board Board, source StatusSource, opts Options) *Reconciler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Reconciler{
		board:       board,
		source:      source,
		interval:    opts.Interval,
		concurrency: opts.Concurrency,
	}
}

// IsInFlightText reports whether displayed status text means work is ongoing.
func IsInFlightText(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "pending", "in progress", "started":
		return true
	default:
		return false
	}
}

// Pollable reports whether any indicator still needs polling.
func Pollable(indicators []Indicator) bool {
	for _, ind := range indicators {
		if IsInFlightText(ind.Text) {
			return true
		}
	}
	return false
}

// Run polls until no indicator is in flight or ctx is cancelled. It returns
// immediately, without starting a timer, when nothing is in flight.
func (r *Reconciler) Run(ctx context.Context) error {
	if !Pollable(r.board.Indicators()) {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		result, err := r.Pass(ctx)
		if errors.Is(err, ErrPassInFlight) {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if result.Remaining == 0 {
			telemetry.Debug("reconciler.stopped", map[string]any{"interval_ms": r.interval.Milliseconds()})
			return nil
		}
	}
}

// Pass fetches the status of every in-flight indicator and applies changes.
// Fetch failures leave the indicator in flight.
func (r *Reconciler) Pass(ctx context.Context) (PassResult, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return PassResult{}, ErrPassInFlight
	}
	defer r.inFlight.Store(false)
	metrics.IncReconcilePass()

	var targets []Indicator
	for _, ind := range r.board.Indicators() {
		if IsInFlightText(ind.Text) {
			targets = append(targets, ind)
		}
	}

	var fetched, updated, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, ind := range targets {
		g.Go(func() error {
			fetched.Add(1)
			status, err := r.source.Status(ctx, ind.ID)
			if err != nil {
				failed.Add(1)
				metrics.IncStatusFetch("error")
				telemetry.Debug("reconciler.fetch_failed", map[string]any{
					"review_id": ind.ID,
					"error":     err,
				})
				return nil
			}

			tag := view.NewStatusTag(ind.ID, status)
			if sameText(ind.Text, tag.Text) {
				metrics.IncStatusFetch("unchanged")
				return nil
			}

			r.applyMu.Lock()
			r.board.Apply(ind.ID, tag)
			r.applyMu.Unlock()

			updated.Add(1)
			metrics.IncStatusFetch("changed")
			metrics.IncStatusUpdate()
			telemetry.Debug("reconciler.status_changed", map[string]any{
				"review_id": ind.ID,
				"from":      ind.Text,
				"to":        tag.Text,
			})
			return nil
		})
	}
	_ = g.Wait()

	remaining := 0
	for _, ind := range r.board.Indicators() {
		if IsInFlightText(ind.Text) {
			remaining++
		}
	}

	return PassResult{
		Fetched:   int(fetched.Load()),
		Updated:   int(updated.Load()),
		Failed:    int(failed.Load()),
		Remaining: remaining,
	}, ctx.Err()
}

func sameText(displayed, next string) bool {
	return strings.EqualFold(strings.TrimSpace(displayed), strings.TrimSpace(next))
}
