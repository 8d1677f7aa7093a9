package engine

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/lmoretti/storeiq/internal/config"
)

// Scheduler manages the periodic derived-artifact refresh jobs.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that runs the four refresh jobs on
// their configured intervals.
func NewScheduler(eng *Engine, schedule config.ScheduleConfig, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	jobs := []struct {
		name     string
		interval string
		run      func(context.Context) error
	}{
		{JobSimilarity, "@every " + schedule.SimilarityInterval.String(), eng.RunSimilarityRefresh},
		{JobRuleMining, "@every " + schedule.MiningInterval.String(), eng.RunRuleMining},
		{JobSentiment, "@every " + schedule.SentimentInterval.String(), eng.RunSentimentRefresh},
		{JobForecast, "@every " + schedule.ForecastInterval.String(), eng.RunForecastRefresh},
	}

	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.interval, func() {
			s.log.Info("scheduled refresh starting", "job", job.name)
			if err := job.run(context.Background()); err != nil {
				s.log.Error("scheduled refresh failed", "job", job.name, "error", err)
			}
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
