// Package schedule maps run invocation times to the publication window each
// run is responsible for.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const defaultFallback = 24 * time.Hour

// Slot is one scheduled run. A run fired within [Boundary-Lead, Boundary+Lag)
// covers the Span that ends at Boundary.
type Slot struct {
	Name string
	// Boundary is the time of day, as an offset from local midnight.
	Boundary time.Duration
	Lead     time.Duration
	Lag      time.Duration
	Span     time.Duration
}

// Policy is the full set of slots plus the off-schedule fallback span.
type Policy struct {
	Slots    []Slot
	Fallback time.Duration
}

// DefaultPolicy runs at 00:00, 08:00 and 16:00 with one hour of tolerance on
// either side; the three 8h spans partition the day.
func DefaultPolicy() Policy {
	return Policy{
		Slots: []Slot{
			{Name: "night", Boundary: 8 * time.Hour, Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
			{Name: "morning", Boundary: 16 * time.Hour, Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
			{Name: "evening", Boundary: 0, Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
		},
		Fallback: defaultFallback,
	}
}

// Validate checks that every slot is well formed.
func (p Policy) Validate() error {
	for _, s := range p.Slots {
		if s.Boundary < 0 || s.Boundary >= 24*time.Hour {
			return fmt.Errorf("slot %q: boundary %s out of range", s.Name, s.Boundary)
		}
		if s.Lead < 0 || s.Lag < 0 {
			return fmt.Errorf("slot %q: negative tolerance", s.Name)
		}
		if s.Lead+s.Lag > 12*time.Hour {
			return fmt.Errorf("slot %q: tolerance wider than half a day", s.Name)
		}
		if s.Span <= 0 {
			return fmt.Errorf("slot %q: span must be positive", s.Name)
		}
	}
	if p.Fallback < 0 {
		return fmt.Errorf("fallback span must not be negative")
	}
	return nil
}

// ParseClock converts "HH:MM" into an offset from midnight.
func ParseClock(value string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: expected HH:MM", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock %q: invalid hour", value)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: invalid minute", value)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
