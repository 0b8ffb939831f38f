// Package jobs runs periodic maintenance outside the request path.
package jobs

import (
	"context"
	"fmt"
	"time"

	cronv3 "github.com/robfig/cron/v3"

	"fitnessallies/backend/internal/logger"
)

const sweepTimeout = 30 * time.Second

// PlanDeactivator flips plans past their end date to inactive.
type PlanDeactivator interface {
	DeactivateExpiredPlans(ctx context.Context) (int64, error)
}

// PlanSweeper deactivates expired plans on a cron schedule.
type PlanSweeper struct {
	log   *logger.Logger
	plans PlanDeactivator
	cron  *cronv3.Cron
}

// NewPlanSweeper validates schedule (standard five-field expression or a
// descriptor such as "@hourly") and registers the sweep. Call Start to run it.
func NewPlanSweeper(log *logger.Logger, plans PlanDeactivator, schedule string) (*PlanSweeper, error) {
	s := &PlanSweeper{
		log:   log.With("job", "PlanSweeper"),
		plans: plans,
		cron:  cronv3.New(),
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid sweeper schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs a single sweep and returns the number of plans changed.
func (s *PlanSweeper) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := s.plans.DeactivateExpiredPlans(ctx)
	if err != nil {
		s.log.Error("expired plan sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		s.log.Info("expired plans deactivated", "count", n)
	} else {
		s.log.Debug("expired plan sweep found nothing")
	}
	return n
}

func (s *PlanSweeper) Start() {
	s.cron.Start()
	s.log.Info("plan sweeper started")
}

// Stop prevents new runs and waits for a running sweep until ctx ends.
func (s *PlanSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("plan sweeper stop timed out")
	}
}
