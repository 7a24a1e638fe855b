package schedule

import (
	"log/slog"
	"time"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

// Resolver computes the window a run covers from its invocation time.
type Resolver struct {
	policy   Policy
	location *time.Location
	logger   *slog.Logger
}

var _ ports.WindowResolver = (*Resolver)(nil)

// NewResolver binds a policy to the target zone. A nil location means UTC.
func NewResolver(policy Policy, loc *time.Location, logger *slog.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if policy.Fallback == 0 {
		policy.Fallback = defaultFallback
	}
	return &Resolver{policy: policy, location: loc, logger: logger}
}

// Location returns the target zone.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Resolve returns the window for a run fired at now. Off-schedule
// invocations get a trailing fallback window and a warning.
func (r *Resolver) Resolve(now time.Time) domain.TimeWindow {
	now = now.In(r.location)

	for _, slot := range r.policy.Slots {
		end := nearestBoundary(now, slot.Boundary)
		if now.Before(end.Add(-slot.Lead)) || !now.Before(end.Add(slot.Lag)) {
			continue
		}
		w := domain.TimeWindow{Start: end.Add(-slot.Span), End: end, Slot: slot.Name}
		r.debug("scheduled window", "slot", slot.Name, "start", w.Start, "end", w.End)
		return w
	}

	w := domain.TimeWindow{Start: now.Add(-r.policy.Fallback), End: now}
	if r.logger != nil {
		r.logger.Warn("outside standard schedule, using trailing window",
			"now", now, "start", w.Start, "end", w.End)
	}
	return w
}

// NextBoundary returns the first slot boundary strictly after now.
func (r *Resolver) NextBoundary(now time.Time) (time.Time, bool) {
	now = now.In(r.location)
	var (
		next  time.Time
		found bool
	)
	for _, slot := range r.policy.Slots {
		candidate := atClock(now, slot.Boundary)
		if !candidate.After(now) {
			candidate = atClock(now.AddDate(0, 0, 1), slot.Boundary)
		}
		if !found || candidate.Before(next) {
			next, found = candidate, true
		}
	}
	return next, found
}

// nearestBoundary picks yesterday's, today's or tomorrow's occurrence of the
// boundary, whichever is closest to now.
func nearestBoundary(now time.Time, boundary time.Duration) time.Time {
	best := atClock(now, boundary)
	for _, days := range []int{-1, 1} {
		candidate := atClock(now.AddDate(0, 0, days), boundary)
		if absDuration(candidate.Sub(now)) < absDuration(best.Sub(now)) {
			best = candidate
		}
	}
	return best
}

func atClock(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(offset / time.Hour)
	minute := int((offset % time.Hour) / time.Minute)
	return time.Date(y, m, d, h, minute, 0, 0, day.Location())
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func (r *Resolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
