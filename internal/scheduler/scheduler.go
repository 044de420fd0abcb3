// Package scheduler runs the daily whole-room reset at a fixed local
// time, independent of any connected client.
package scheduler

import (
	"context"
	"log"
	"time"
)

// ResetFunc performs one whole-room reset.
type ResetFunc func(ctx context.Context) error

const (
	// DefaultResetHour is noon, matching the classroom's daily cadence.
	DefaultResetHour = 12

	// retryBackoff is the delay before retrying a failed reset; much
	// shorter than the daily period so a transient store outage does not
	// skip a day.
	retryBackoff = 30 * time.Minute
)

// Scheduler fires ResetFunc once per day at ResetHour in Location.
type Scheduler struct {
	reset     ResetFunc
	loc       *time.Location
	resetHour int
	now       func() time.Time
}

// New returns a Scheduler firing at resetHour (0-23) local time in loc.
func New(reset ResetFunc, loc *time.Location, resetHour int) *Scheduler {
	if resetHour < 0 || resetHour > 23 {
		resetHour = DefaultResetHour
	}
	return &Scheduler{reset: reset, loc: loc, resetHour: resetHour, now: time.Now}
}

// NextRunDelay returns the duration from now until the next occurrence
// of the reset hour in the scheduler's location.  When now is already
// past today's boundary, the run rolls to tomorrow.
func (s *Scheduler) NextRunDelay(now time.Time) time.Duration {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.resetHour, 0, 0, 0, s.loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}

// Run blocks until ctx is cancelled, firing the reset at each boundary.
// A failed reset is logged and retried after a short backoff instead of
// crashing the loop; after a successful run the normal daily cadence
// resumes.
func (s *Scheduler) Run(ctx context.Context) {
	delay := s.NextRunDelay(s.now())
	log.Printf("scheduler: next reset in %s", delay.Round(time.Minute))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if err := s.reset(ctx); err != nil {
			log.Printf("scheduler: reset failed: %v; retrying in %s", err, retryBackoff)
			timer.Reset(retryBackoff)
			continue
		}
		delay = s.NextRunDelay(s.now())
		log.Printf("scheduler: reset complete; next reset in %s", delay.Round(time.Minute))
		timer.Reset(delay)
	}
}
