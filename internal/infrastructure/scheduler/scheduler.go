// Package scheduler implements background job scheduling for the residency
// progress hub. It drives periodic maintenance tasks such as recounting
// progress counters from approved records and flagging specialization modules
// that are about to reach their planned end date.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rezhub/residency-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler manages and executes scheduled jobs.
type Scheduler struct {
	mu sync.RWMutex

	log      *logger.Logger
	timezone *time.Location

	jobs      map[string]*scheduledJob
	running   bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time

	metrics  Metrics
	lastRuns map[string]*JobResult
}

// scheduledJob wraps a Job with scheduling information.
type scheduledJob struct {
	job       Job
	schedule  Schedule
	enabled   bool
	lastRun   time.Time
	nextRun   time.Time
	runCount  int64
	failCount int64
}

// Config contains configuration for the Scheduler.
type Config struct {
	// Logger for structured logging.
	Logger *logger.Logger

	// Timezone for schedule calculations (default: UTC).
	Timezone *time.Location
}

// Metrics aggregates execution counters across all jobs.
type Metrics struct {
	TotalRuns      int64
	TotalFailures  int64
	TotalDuration  time.Duration
	LastRunAt      time.Time
	LastFailureAt  time.Time
	CurrentRunning int64
}

// Sentinel errors returned by scheduler operations.
var (
	ErrJobNotFound      = fmt.Errorf("job not found")
	ErrJobAlreadyExists = fmt.Errorf("job already registered")
	ErrSchedulerRunning = fmt.Errorf("scheduler is already running")
	ErrSchedulerStopped = fmt.Errorf("scheduler is not running")
)

// New creates a new Scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	return &Scheduler{
		log:      cfg.Logger.With(logger.Component("scheduler")),
		timezone: cfg.Timezone,
		jobs:     make(map[string]*scheduledJob),
		lastRuns: make(map[string]*JobResult),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registration
// ──────────────────────────────────────────────────────────────────────────────

// Register adds a job with its schedule. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, job.Name())
	}

	now := time.Now().In(s.timezone)
	s.jobs[job.Name()] = &scheduledJob{
		job:      job,
		schedule: schedule,
		enabled:  true,
		nextRun:  schedule.Next(now),
	}

	s.log.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("schedule", schedule.String()),
	)
	return nil
}

// SetEnabled toggles a registered job without unregistering it.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sj, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	sj.enabled = enabled
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────────────────────────────────

// Start begins executing scheduled jobs. It returns immediately; jobs run in
// background goroutines until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	s.running = true
	s.startedAt = time.Now()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info("scheduler started", logger.Int("jobs", len(s.jobs)))

	s.wg.Add(1)
	go s.runLoop()
	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs to finish
// or the context to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerStopped
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop scheduler: %w", ctx.Err())
	}
}

// runLoop wakes every second and fires jobs whose next run time has passed.
func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now.In(s.timezone))
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	var due []*scheduledJob
	for _, sj := range s.jobs {
		if sj.enabled && !sj.nextRun.IsZero() && !now.Before(sj.nextRun) {
			sj.nextRun = sj.schedule.Next(now)
			due = append(due, sj)
		}
	}
	s.mu.Unlock()

	for _, sj := range due {
		s.wg.Add(1)
		go func(sj *scheduledJob) {
			defer s.wg.Done()
			s.runJob(sj)
		}(sj)
	}
}

// runJob executes a single job and records the result.
func (s *Scheduler) runJob(sj *scheduledJob) {
	name := sj.job.Name()
	started := time.Now()

	s.mu.Lock()
	s.metrics.CurrentRunning++
	s.mu.Unlock()

	s.log.Info("job started", logger.String("job", name))

	defer func() {
		if r := recover(); r != nil {
			s.recordResult(sj, JobResult{
				JobName:     name,
				StartedAt:   started,
				CompletedAt: time.Now(),
				Duration:    time.Since(started),
				Success:     false,
				Error:       fmt.Errorf("job panicked: %v", r),
			})
		}
	}()

	err := sj.job.Run(s.ctx)

	s.recordResult(sj, JobResult{
		JobName:     name,
		StartedAt:   started,
		CompletedAt: time.Now(),
		Duration:    time.Since(started),
		Success:     err == nil,
		Error:       err,
	})
}

func (s *Scheduler) recordResult(sj *scheduledJob, result JobResult) {
	s.mu.Lock()
	sj.lastRun = result.StartedAt
	sj.runCount++
	s.metrics.CurrentRunning--
	s.metrics.TotalRuns++
	s.metrics.TotalDuration += result.Duration
	s.metrics.LastRunAt = result.CompletedAt
	if !result.Success {
		sj.failCount++
		s.metrics.TotalFailures++
		s.metrics.LastFailureAt = result.CompletedAt
	}
	s.lastRuns[result.JobName] = &result
	s.mu.Unlock()

	if result.Success {
		s.log.Info("job completed",
			logger.String("job", result.JobName),
			logger.Latency(result.Duration),
		)
	} else {
		s.log.Error("job failed",
			logger.String("job", result.JobName),
			logger.Latency(result.Duration),
			logger.Err(result.Error),
		)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Introspection
// ──────────────────────────────────────────────────────────────────────────────

// RunNow triggers a registered job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	sj, ok := s.jobs[name]
	running := s.running
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !running {
		return ErrSchedulerStopped
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(sj)
	}()
	return nil
}

// JobInfo describes a registered job for monitoring endpoints.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	Enabled     bool
	LastRun     time.Time
	NextRun     time.Time
	RunCount    int64
	FailCount   int64
}

// ListJobs returns information about all registered jobs.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, sj := range s.jobs {
		infos = append(infos, JobInfo{
			Name:        sj.job.Name(),
			Description: sj.job.Description(),
			Schedule:    sj.schedule.String(),
			Enabled:     sj.enabled,
			LastRun:     sj.lastRun,
			NextRun:     sj.nextRun,
			RunCount:    sj.runCount,
			FailCount:   sj.failCount,
		})
	}
	return infos
}

// LastResult returns the most recent execution result for a job, if any.
func (s *Scheduler) LastResult(name string) (JobResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.lastRuns[name]
	if !ok {
		return JobResult{}, false
	}
	return *r, true
}

// GetMetrics returns a snapshot of aggregate scheduler metrics.
func (s *Scheduler) GetMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}
