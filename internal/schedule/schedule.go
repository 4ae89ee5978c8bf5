// Package schedule regenerates a site on a fixed interval so that drafts
// with a publish time go live without a manual run.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/run"
)

// Generator is satisfied by *run.Builder.
type Generator interface {
	Generate(ctx context.Context) (*run.Result, error)
}

// Scheduler wraps a gocron scheduler holding a single generation job.
type Scheduler struct {
	scheduler gocron.Scheduler
	gen       Generator
	logger    *slog.Logger
}

// NewScheduler creates a scheduler for gen. Nothing runs until Every and
// Start are called.
func NewScheduler(gen Generator, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, gen: gen, logger: logger}, nil
}

// Every schedules a generation each interval. A run still in progress when
// the next one is due causes that tick to be skipped.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive, got %v", interval)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.generate, ctx),
		gocron.WithName("generate"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic generate job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop waits for a running generation and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) generate(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res, err := s.gen.Generate(ctx)
	if err != nil {
		var conflictErr *conflicts.ConflictError
		if errors.As(err, &conflictErr) {
			s.logger.Warn("Scheduled generation refused", "urls", conflictErr.URLs())
			return
		}
		s.logger.Error("Scheduled generation failed", "error", err)
		return
	}
	s.logger.Info("Scheduled generation finished",
		"posts", res.Posts,
		"drafts", res.Drafts,
		"changed", res.Changed,
		"duration", res.Metrics.TotalDuration())
}
