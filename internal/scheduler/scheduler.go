// Package scheduler triggers one reconciliation run per day at a fixed local
// time, for deployments that want cron semantics without an external cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/pipeline"
	"github.com/rs/zerolog"
)

// Runner triggers one reconciliation run. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) pipeline.Result
}

// Scheduler fires the runner daily at hour:minute, Brazilian wall-clock time.
type Scheduler struct {
	runner Runner
	hour   int
	minute int
	now    func() time.Time
	log    zerolog.Logger
}

// New parses runAt ("HH:MM") and builds a scheduler.
func New(runner Runner, runAt string, log zerolog.Logger) (*Scheduler, error) {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		return nil, fmt.Errorf("scheduler: run time must be HH:MM, got %q", runAt)
	}
	return &Scheduler{
		runner: runner,
		hour:   at.Hour(),
		minute: at.Minute(),
		now:    time.Now,
		log:    log,
	}, nil
}

// Start launches the daily loop in the background; it stops when ctx is
// cancelled. Re-running on a day the HTTP endpoint already handled is safe:
// the append layer skips rows that are already in the sheet.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		wait := s.untilNext()
		s.log.Info().Dur("sleep", wait).Msg("Scheduler waiting for next daily run")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("Scheduler stopped")
			return
		case <-timer.C:
		}

		result := s.runner.Run(ctx)
		if result.Credit.Err != nil {
			s.log.Error().Err(result.Credit.Err).Str("run_id", result.RunID).Msg("Scheduled credit branch failed")
		}
		if result.Transfer.Err != nil {
			s.log.Error().Err(result.Transfer.Err).Str("run_id", result.RunID).Msg("Scheduled transfer branch failed")
		}
	}
}

// untilNext computes the wait until the next hour:minute in the run timezone.
func (s *Scheduler) untilNext() time.Duration {
	now := s.now().In(ledger.Location())
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, ledger.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
