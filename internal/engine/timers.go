package engine

import (
	"context"
	"time"
)

// countdown is the handle of a running break ticker. Stopping it cancels the
// goroutine; a stale ticker never touches a later break because each tick
// checks that its handle is still the current one.
type countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown runs the break ticker in the background until the break
// ends, the context is cancelled or EndBreak/Close is called. The returned
// channel is closed when the ticker has stopped.
func (s *Service) StartCountdown(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.BreakActive {
		done := make(chan struct{})
		close(done)
		return done
	}
	s.stopCountdownLocked()

	cctx, cancel := context.WithCancel(ctx)
	c := &countdown{cancel: cancel, done: make(chan struct{})}
	s.countdown = c
	go s.runCountdown(cctx, c)
	return c.done
}

func (s *Service) runCountdown(ctx context.Context, c *countdown) {
	defer close(c.done)
	t := time.NewTicker(s.breakTick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.countdown == c {
				s.countdown = nil
			}
			s.mu.Unlock()
			return
		case <-t.C:
			s.mu.Lock()
			if s.countdown != c {
				s.mu.Unlock()
				return
			}
			_, active, ended := s.tickLocked(ctx)
			s.mu.Unlock()
			if ended {
				s.playIfEnabled(s.sound.PlayBreakEnd)
			}
			if !active {
				return
			}
		}
	}
}

func (s *Service) stopCountdownLocked() {
	if s.countdown == nil {
		return
	}
	s.countdown.cancel()
	s.countdown = nil
}

// CountdownRunning reports whether a break ticker is active.
func (s *Service) CountdownRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown != nil
}

// TrackActivity starts a fresh activity session and then records active
// time every interval until ctx is done. Ticks that land during a break are
// skipped.
func (s *Service) TrackActivity(ctx context.Context, interval time.Duration) {
	s.BeginActivitySession(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.RecordActivity(ctx)
		}
	}
}
