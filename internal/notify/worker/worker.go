// Package worker consumes notification jobs and drives the mailer. It keeps
// background processing testable without wiring queue implementations in.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fundrace/internal/notify"
	"fundrace/internal/notify/mailer"
	"fundrace/pkg/platform/circuit"
)

// Mailer delivers one job.
type Mailer interface {
	Send(ctx context.Context, job notify.Job) error
}

// Worker pulls jobs off a channel and sends them. A circuit breaker wraps
// the mailer: after repeated SMTP failures the worker stops hammering the
// relay and only probes it once per probe interval, dropping jobs in
// between. Delivery is best-effort end to end.
type Worker struct {
	mailer        Mailer
	jobs          <-chan notify.Job
	logger        *slog.Logger
	breaker       *circuit.Breaker
	probeInterval time.Duration
	lastAttempt   time.Time
	now           func() time.Time
}

// Option configures a Worker.
type Option func(*Worker)

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(w *Worker) { w.breaker = b }
}

// WithProbeInterval sets how often an open circuit is probed.
func WithProbeInterval(d time.Duration) Option {
	return func(w *Worker) { w.probeInterval = d }
}

// WithNowFunc overrides the clock. Test hook.
func WithNowFunc(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// New constructs a worker over the given job channel.
func New(m Mailer, jobs <-chan notify.Job, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		mailer:        m,
		jobs:          jobs,
		logger:        logger,
		breaker:       circuit.New("mailer", circuit.WithFailureThreshold(5)),
		probeInterval: time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.jobs:
			w.Handle(ctx, job)
		}
	}
}

// Handle processes one job. Exposed so the Kafka consumer can reuse the same
// delivery path.
func (w *Worker) Handle(ctx context.Context, job notify.Job) {
	if w.breaker.IsOpen() && w.now().Sub(w.lastAttempt) < w.probeInterval {
		w.logger.WarnContext(ctx, "mailer circuit open, dropping notification",
			"registration_id", job.RegistrationID,
		)
		return
	}
	w.lastAttempt = w.now()

	err := w.mailer.Send(ctx, job)
	if err == nil {
		_, change := w.breaker.RecordSuccess()
		if change.Closed {
			w.logger.InfoContext(ctx, "mailer circuit closed")
		}
		return
	}

	if errors.Is(err, mailer.ErrNotConfigured) {
		w.logger.WarnContext(ctx, "smtp not configured, notification skipped",
			"registration_id", job.RegistrationID,
		)
		return
	}

	_, change := w.breaker.RecordFailure()
	if change.Opened {
		w.logger.ErrorContext(ctx, "mailer circuit opened")
	}
	w.logger.ErrorContext(ctx, "notification delivery failed",
		"registration_id", job.RegistrationID,
		"error", err,
	)
}
