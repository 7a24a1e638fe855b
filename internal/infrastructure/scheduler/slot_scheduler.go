package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dailynews/internal/ports"
)

// BoundarySource yields the next scheduled run instant after now.
type BoundarySource interface {
	NextBoundary(now time.Time) (time.Time, bool)
}

// SlotScheduler fires a job at every slot boundary of the schedule policy.
type SlotScheduler struct {
	boundaries BoundarySource
	now        func() time.Time
	after      func(time.Duration) <-chan time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*SlotScheduler)(nil)

// NewSlotScheduler builds a scheduler driven by the policy boundaries.
func NewSlotScheduler(boundaries BoundarySource) *SlotScheduler {
	return &SlotScheduler{boundaries: boundaries, now: time.Now, after: time.After}
}

// Start waits for each boundary in a goroutine and calls job with the firing
// time. Calling Start twice is a no-op.
func (s *SlotScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.boundaries == nil {
		return fmt.Errorf("scheduler has no boundary source")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return nil
	}
	if _, ok := s.boundaries.NextBoundary(s.now()); !ok {
		return fmt.Errorf("schedule policy has no slots")
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx, job, s.stop, s.done)

	return nil
}

func (s *SlotScheduler) loop(ctx context.Context, job func(time.Time), stop, done chan struct{}) {
	defer close(done)
	for {
		next, _ := s.boundaries.NextBoundary(s.now())
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}

		select {
		case <-s.after(wait):
			job(s.now())
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}

// Stop halts the loop and waits for an in-flight job to return.
func (s *SlotScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the loop exits because ctx ended or Stop was called.
func (s *SlotScheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
