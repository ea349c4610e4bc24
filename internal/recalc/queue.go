// Package recalc runs aggregate recalculations on a background worker
// pool. Submitting a practice, approving it, or editing its savings
// enqueues the affected plant/month; workers recompute the monthly
// rollup and everything forward of it without blocking the request.
package recalc

import (
	"context"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
)

// Recalculator recomputes a plant's aggregates from the given anchor
// month through the end of the year.
type Recalculator interface {
	RecalculateForward(ctx context.Context, plantID string, year, month int) error
}

// jobTimeout bounds a single recalculation run. A full year for one
// plant is a handful of queries; a minute is generous.
const jobTimeout = time.Minute

// Queue is a bounded fire-and-forget work queue for recalculations.
type Queue struct {
	pool   pond.Pool
	recalc Recalculator
	logger *slog.Logger
}

// NewQueue creates a queue with the given worker count and backlog size.
// When the backlog is full, new jobs are dropped rather than blocking
// the submitting request; aggregates converge on the next write to the
// same month.
func NewQueue(recalc Recalculator, workers, queueSize int, logger *slog.Logger) *Queue {
	return &Queue{
		pool:   pond.NewPool(workers, pond.WithQueueSize(queueSize), pond.WithNonBlocking(true)),
		recalc: recalc,
		logger: logger,
	}
}

// Enqueue schedules a forward recalculation for the plant starting at
// the given month. Returns immediately; failures are logged, not
// returned, because the caller's write has already committed.
func (q *Queue) Enqueue(plantID string, year, month int) {
	err := q.pool.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := q.recalc.RecalculateForward(ctx, plantID, year, month); err != nil {
			q.logger.Error("recalculation failed",
				"plant_id", plantID,
				"year", year,
				"month", month,
				"error", err,
			)
		}
	})
	if err != nil {
		q.logger.Warn("recalculation dropped, queue full",
			"plant_id", plantID,
			"year", year,
			"month", month,
			"error", err,
		)
	}
}

// Shutdown stops accepting jobs and waits for in-flight recalculations
// to finish.
func (q *Queue) Shutdown() {
	q.pool.StopAndWait()
}
