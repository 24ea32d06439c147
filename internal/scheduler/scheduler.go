// Package scheduler runs the periodic maintenance jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron"
)

// jobTimeout bounds a single run of a job.
const jobTimeout = 2 * time.Minute

// PlanExpirer moves active plans past their end date to completed.
type PlanExpirer interface {
	CompleteExpiredPlans(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	expirer PlanExpirer
	spec    string
}

// New creates a scheduler that runs the plan rollover on spec.
// spec uses the six-field cron format with seconds, or a descriptor like "@daily".
func New(expirer PlanExpirer, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		expirer: expirer,
		spec:    spec,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	if err := s.cron.AddFunc(s.spec, s.runPlanRollover); err != nil {
		return fmt.Errorf("invalid plan rollover schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("INFO: Scheduler started, plan rollover at %q", s.spec)
	return nil
}

// Stop halts the cron loop. Running jobs are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("INFO: Scheduler stopped")
}

func (s *Scheduler) runPlanRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.expirer.CompleteExpiredPlans(ctx)
	if err != nil {
		log.Printf("ERROR: Plan rollover failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("INFO: Plan rollover completed %d expired plan(s)", n)
	}
}
