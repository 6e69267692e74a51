// Package jobs contains implementations of scheduled jobs for the residency
// progress hub. Each job keeps derived state honest: cached module counters
// are periodically rebuilt from approved records, and residents are warned
// before a module window closes.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	rediscache "github.com/rezhub/residency-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/rezhub/residency-progress-hub/pkg/logger"
)

// DistributedLocker coordinates job runs across multiple worker processes.
// Satisfied by the redis cache.
type DistributedLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// acquireLock takes a best-effort distributed lock. A nil locker means the
// deployment runs a single worker and locking is skipped.
func acquireLock(ctx context.Context, locker DistributedLocker, name string) (func(), bool, error) {
	if locker == nil {
		return func() {}, true, nil
	}

	key := rediscache.LockKey(name)
	ok, err := locker.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), rediscache.TTLDistributedLock)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire job lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		_ = locker.Delete(context.Background(), key)
	}
	return release, true, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOUNT PROGRESS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RecountProgressJob rebuilds the cached module counters of every
// specialization from its approved record snapshot. Counters are maintained
// incrementally on the write path; this job repairs any drift caused by
// approval flips, record deletions, or template corrections.
type RecountProgressJob struct {
	specs      specialization.Repository
	records    record.Repository
	templates  curriculum.TemplateStore
	calculator *progress.Calculator
	locks      DistributedLocker
	log        *logger.Logger
	cfg        RecountConfig
}

// RecountConfig contains configuration for the recount job.
type RecountConfig struct {
	// Timeout bounds a full recount pass.
	Timeout time.Duration

	// MaxFailures aborts the pass after this many per-specialization errors.
	MaxFailures int
}

// DefaultRecountConfig returns sensible defaults.
func DefaultRecountConfig() RecountConfig {
	return RecountConfig{
		Timeout:     10 * time.Minute,
		MaxFailures: 20,
	}
}

// NewRecountProgressJob creates the job. locks may be nil for single-worker
// deployments.
func NewRecountProgressJob(
	specs specialization.Repository,
	records record.Repository,
	templates curriculum.TemplateStore,
	locks DistributedLocker,
	log *logger.Logger,
	cfg RecountConfig,
) *RecountProgressJob {
	if cfg.Timeout <= 0 {
		cfg = DefaultRecountConfig()
	}
	return &RecountProgressJob{
		specs:      specs,
		records:    records,
		templates:  templates,
		calculator: progress.NewCalculator(),
		locks:      locks,
		log:        log.With(logger.Component("recount_progress_job")),
		cfg:        cfg,
	}
}

// Name implements scheduler.Job.
func (j *RecountProgressJob) Name() string {
	return "recount_progress"
}

// Description implements scheduler.Job.
func (j *RecountProgressJob) Description() string {
	return "Rebuilds cached module progress counters from approved records"
}

// Run implements scheduler.Job.
func (j *RecountProgressJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	release, acquired, err := acquireLock(ctx, j.locks, j.Name())
	if err != nil {
		return err
	}
	if !acquired {
		j.log.Info("recount skipped, another worker holds the lock")
		return nil
	}
	defer release()

	ids, err := j.specs.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list specializations: %w", err)
	}

	started := time.Now()
	var recounted, failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return fmt.Errorf("recount interrupted: %w", ctx.Err())
		}

		if err := j.recountOne(ctx, id); err != nil {
			failed++
			j.log.Error("failed to recount specialization",
				logger.SpecializationID(id),
				logger.Err(err),
			)
			if failed >= j.cfg.MaxFailures {
				return fmt.Errorf("recount aborted after %d failures", failed)
			}
			continue
		}
		recounted++
	}

	j.log.Info("recount pass completed",
		logger.Int("recounted", recounted),
		logger.Int("failed", failed),
		logger.Latency(time.Since(started)),
	)
	return nil
}

// recountOne rebuilds one specialization's counters from a consistent record
// snapshot and persists the result.
func (j *RecountProgressJob) recountOne(ctx context.Context, specializationID string) error {
	spec, err := j.specs.GetByID(ctx, specializationID)
	if err != nil {
		return err
	}

	tpl, err := j.templates.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	if err != nil {
		// A retired program leaves its specializations readable but
		// unrecountable. Skip instead of failing the whole pass.
		if errors.Is(err, shared.ErrNotFound) {
			j.log.Warn("template gone, skipping recount",
				logger.SpecializationID(spec.ID),
				logger.ProgramCode(spec.ProgramCode),
			)
			return nil
		}
		return err
	}

	snap, err := j.records.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return err
	}

	j.calculator.RecountAll(spec, tpl, snap)

	if err := j.specs.Update(ctx, spec); err != nil {
		return fmt.Errorf("failed to persist recounted counters: %w", err)
	}
	return nil
}
