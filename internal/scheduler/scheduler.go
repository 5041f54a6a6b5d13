// Package scheduler drives the background sweeps on a recurring cron
// cadence. It is an explicit process-scoped component with a Start/Stop
// lifecycle and injected dependencies, so sweeps can be tested by calling
// them directly instead of waiting for wall-clock time.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/topmart/Investment-Engine-Backend/internal/config"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

// Scheduler owns the cron runner. One instance per process; the engine
// assumes a single logical scheduler (multi-instance deployments need
// external coordination this package does not provide).
type Scheduler struct {
	cron   *cron.Cron
	sweeps *service.SweepService
	cfg    config.SchedulerConfig
}

// New creates a Scheduler around the given sweep service. Jobs run in UTC
// and are single-flight: a tick that fires while the previous run is still
// going is skipped, never queued behind it.
func New(sweeps *service.SweepService, cfg config.SchedulerConfig) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		),
	)
	return &Scheduler{cron: c, sweeps: sweeps, cfg: cfg}
}

// Start registers the sweep job and begins ticking. When configured, a
// one-off catch-up sweep runs first to cover any downtime since the last
// shutdown.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSpec, s.tick); err != nil {
		return err
	}

	if s.cfg.CatchUpOnStart {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunBudget)
			defer cancel()

			if _, err := s.sweeps.RunCatchUpSweep(ctx); err != nil {
				log.Printf("scheduler: startup catch-up sweep failed: %v", err)
			}
		}()
	}

	s.cron.Start()
	log.Printf("scheduler: started, cron spec %q", s.cfg.CronSpec)
	return nil
}

// tick runs the full sweep sequence (maturity, catch-up, accrual) within
// the configured run budget. Sweep failures are logged here; per-item
// failures are already accounted inside each summary.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunBudget)
	defer cancel()

	if _, err := s.sweeps.RunAll(ctx); err != nil {
		log.Printf("scheduler: sweep run failed: %v", err)
	}
}

// Stop halts the cron runner and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("scheduler: stopped")
}
