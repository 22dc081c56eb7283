// Package queue provides the notification queue implementations: an
// in-process channel for single-instance deployments and a Kafka topic for
// deployments with a broker.
package queue

import (
	"context"
	"errors"

	"fundrace/internal/notify"
)

// ErrFull is returned when the in-process queue cannot accept another job
// without blocking the caller.
var ErrFull = errors.New("notification queue full")

// ChannelQueue is a bounded in-process queue. The default for deployments
// without a broker; jobs are lost on process exit, which matches the
// best-effort delivery contract.
type ChannelQueue struct {
	jobs chan notify.Job
}

// NewChannelQueue creates a queue with the given capacity.
func NewChannelQueue(capacity int) *ChannelQueue {
	if capacity < 1 {
		capacity = 64
	}
	return &ChannelQueue{jobs: make(chan notify.Job, capacity)}
}

// Enqueue hands the job to the worker without blocking. A full queue is
// reported to the caller, never waited out.
func (q *ChannelQueue) Enqueue(_ context.Context, job notify.Job) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrFull
	}
}

// Jobs exposes the consumer side for the worker.
func (q *ChannelQueue) Jobs() <-chan notify.Job {
	return q.jobs
}
