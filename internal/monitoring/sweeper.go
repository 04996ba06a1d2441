package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionEnder is the part of the session service the sweeper drives.
type SessionEnder interface {
	EndExpired(ctx context.Context) (int, error)
}

// Sweeper tears down expired sessions on a cron schedule.
type Sweeper struct {
	sessions SessionEnder
	schedule cron.Schedule
	now      func() time.Time
	done     chan struct{}
	stopped  chan struct{}
}

// NewSweeper creates a sweeper for a standard 5-field cron expression.
func NewSweeper(sessions SessionEnder, expression string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", expression, err)
	}
	return &Sweeper{
		sessions: sessions,
		schedule: schedule,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Run sweeps once immediately, then at every scheduled time until Stop.
func (s *Sweeper) Run() {
	defer close(s.stopped)
	log.Info().Msg("Starting session sweeper...")

	s.Sweep()
	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping session sweeper.")
			return
		case <-timer.C:
			s.Sweep()
		}
	}
}

// Stop halts the sweeper and waits for Run to return.
func (s *Sweeper) Stop() {
	close(s.done)
	<-s.stopped
}

// Sweep ends every expired session once.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.sessions.EndExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: Failed to end expired sessions")
		return
	}
	if n > 0 {
		log.Info().Int("sessions", n).Msg("Sweeper: Ended expired sessions")
	}
}
