package cron

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/angelmondragon/catalog-sync/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/multierr"
)

const (
	defaultSpec       = "0 3 * * *"
	defaultRunTimeout = 10 * time.Minute
)

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	// Spec is a standard five-field cron expression.
	Spec       string
	Location   *time.Location
	RunOnStart bool
	RunTimeout time.Duration
}

// Service executes registered cron jobs on a cron schedule.
type Service struct {
	logg       *logger.Logger
	registry   *Registry
	lock       Lock
	metrics    *metrics.CronJobMetrics
	spec       string
	location   *time.Location
	runOnStart bool
	runTimeout time.Duration
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{names: map[string]struct{}{}}
	}
	spec := params.Spec
	if spec == "" {
		spec = defaultSpec
	}
	if _, err := robfig.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	location := params.Location
	if location == nil {
		location = time.UTC
	}
	runTimeout := params.RunTimeout
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	return &Service{
		logg:       params.Logger,
		registry:   registry,
		lock:       params.Lock,
		metrics:    params.Metrics,
		spec:       spec,
		location:   location,
		runOnStart: params.RunOnStart,
		runTimeout: runTimeout,
	}, nil
}

// Run schedules the registered jobs and blocks until the context is
// canceled. A trigger that fires while the previous cycle is still running
// is skipped.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scheduler := robfig.New(
		robfig.WithLocation(s.location),
		robfig.WithLogger(cronLogger{logg: s.logg, ctx: ctx}),
		robfig.WithChain(
			robfig.Recover(cronLogger{logg: s.logg, ctx: ctx}),
			robfig.SkipIfStillRunning(cronLogger{logg: s.logg, ctx: ctx}),
		),
	)
	if _, err := scheduler.AddFunc(s.spec, func() {
		if err := s.runCycle(ctx); err != nil {
			s.logg.Error(ctx, "scheduled run failed", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}

	if s.runOnStart {
		if err := s.runCycle(ctx); err != nil {
			s.logg.Error(ctx, "startup run failed", err)
		}
	}

	scheduler.Start()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"spec":     s.spec,
		"location": s.location.String(),
		"jobs":     len(s.registry.Jobs()),
	}), "cron service started")

	<-ctx.Done()
	s.logg.Info(ctx, "cron service context canceled")
	<-scheduler.Stop().Done()
	return ctx.Err()
}

// runCycle runs every job once, in registration order. A failing job does
// not stop the jobs after it.
func (s *Service) runCycle(ctx context.Context) error {
	s.logg.Info(ctx, "scheduled run starting")
	var errs error
	for _, job := range s.registry.Jobs() {
		if err := s.runJob(ctx, job); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	s.logg.Info(ctx, "scheduled run complete")
	return errs
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	jobCtx := s.logg.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "cron.job",
	})

	locked, err := s.lock.Acquire(jobCtx, job.Name())
	if err != nil {
		s.recordFailure(job.Name())
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(jobCtx, "another instance holds the job lease; skipping")
		s.recordSkipped(job.Name())
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(jobCtx), job.Name()); relErr != nil {
			s.logg.Error(jobCtx, "failed to release job lease", relErr)
		}
	}()

	runCtx, cancel := context.WithTimeout(jobCtx, s.runTimeout)
	defer cancel()

	s.logg.Info(jobCtx, "job start")
	start := time.Now()
	err = job.Run(runCtx)
	duration := time.Since(start)
	s.observeDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		jobCtx = s.logg.WithField(jobCtx, "error_dump", pkgerrors.Dump(err))
		s.logg.Error(jobCtx, "job failed", err)
		s.recordFailure(job.Name())
		return err
	}
	s.logg.Info(jobCtx, "job completed")
	s.recordSuccess(job.Name())
	return nil
}

func (s *Service) observeDuration(job string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(job, duration)
}

func (s *Service) recordSuccess(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSuccess(job)
}

func (s *Service) recordFailure(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncFailure(job)
}

func (s *Service) recordSkipped(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSkipped(job)
}

// cronLogger adapts the service logger to robfig/cron's logging interface.
type cronLogger struct {
	logg *logger.Logger
	ctx  context.Context
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logg.Debug(c.withPairs(keysAndValues), msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logg.Error(c.withPairs(keysAndValues), msg, err)
}

func (c cronLogger) withPairs(keysAndValues []interface{}) context.Context {
	if len(keysAndValues) < 2 {
		return c.ctx
	}
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return c.logg.WithFields(c.ctx, fields)
}
