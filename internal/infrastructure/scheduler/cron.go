package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"newsdigest/internal/ports"
	"newsdigest/pkg/logger"
)

// CronScheduler drives pipeline runs from cron expressions.
type CronScheduler struct {
	cron  *cron.Cron
	specs []string
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given cron specs, evaluated in
// the provided location.
func NewCronScheduler(specs []string, loc *time.Location) *CronScheduler {
	opts := []cron.Option{
		cron.WithLogger(cron.PrintfLogger(logger.New("cron"))),
	}
	if loc != nil {
		opts = append(opts, cron.WithLocation(loc))
	}
	return &CronScheduler{cron: cron.New(opts...), specs: specs}
}

// Start registers the job under every configured spec and starts ticking.
func (c *CronScheduler) Start(_ context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	for _, spec := range c.specs {
		if _, err := c.cron.AddFunc(spec, func() { job(time.Now()) }); err != nil {
			return fmt.Errorf("register cron spec %q: %w", spec, err)
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running job to finish, bounded by
// the caller's context.
func (c *CronScheduler) Stop(ctx context.Context) error {
	stopped := c.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
