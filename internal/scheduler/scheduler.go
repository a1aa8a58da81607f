// Package scheduler fires due reminders.
//
// Each stored reminder moves Pending → Fired → Removed exactly once. Tick
// takes a snapshot of the due entries, claims each one by removing it from
// the store by id and only then notifies, so a reminder can never be
// notified twice even if ticks overlap with other store mutations.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nadzzz/chime/internal/notify"
	"github.com/nadzzz/chime/internal/reminder"
	"github.com/nadzzz/chime/internal/store"
)

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 15 * time.Second

// Scheduler polls the store and notifies due reminders.
type Scheduler struct {
	store    *store.Store
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time

	mu sync.Mutex // serializes ticks
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now as the source of the current time for Run.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler polling every interval.
func New(st *store.Store, n notify.Notifier, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		store:    st,
		notifier: n,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick fires every reminder whose time of day is strictly before now, in
// store order, and returns the fired reminders. Reminders that are not due
// are left untouched.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) []reminder.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		fired  []reminder.Reminder
		failed int
	)
	for _, e := range s.store.Due(now) {
		if !s.store.RemoveID(e.ID) {
			continue
		}
		fired = append(fired, e.Reminder)

		slog.Info("reminder fired", "title", e.Title, "time", e.Time)
		if err := s.notifier.Notify(ctx, e.Title, e.Message()); err != nil {
			failed++
			slog.Error("notifying reminder", "title", e.Title, "time", e.Time, "error", err)
		}
	}

	if len(fired) > 0 {
		slog.Info("processed due reminders", "fired", len(fired), "errors", failed, "pending", s.store.Len())
	}
	return fired
}

// Run ticks immediately and then every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting reminder scheduler", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}
