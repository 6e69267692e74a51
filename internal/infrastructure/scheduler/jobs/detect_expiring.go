package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/pkg/logger"
	"github.com/rezhub/residency-progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DETECT EXPIRING MODULES JOB
// ══════════════════════════════════════════════════════════════════════════════

// DetectExpiringModulesJob scans active modules whose planned end date is
// approaching and emits a warning for each. Surfacing the deadline early
// gives residents time to schedule the remaining internships and shifts
// before the window closes.
type DetectExpiringModulesJob struct {
	specs  specialization.Repository
	locks  DistributedLocker
	log    *logger.Logger
	cfg    ExpiryConfig
	notify func(ctx context.Context, warning ExpiryWarning)
}

// ExpiryWarning describes one module approaching its end date.
type ExpiryWarning struct {
	ResidentID       string
	SpecializationID string
	ModuleID         string
	ModuleName       string
	EndDate          time.Time
	DaysRemaining    int
}

// ExpiryConfig contains configuration for the expiry detection job.
type ExpiryConfig struct {
	// WarnWithinDays is the look-ahead window. Active modules ending within
	// this many days are reported.
	WarnWithinDays int

	// DedupTTL suppresses repeat warnings for the same module.
	DedupTTL time.Duration

	// Timeout bounds a full scan.
	Timeout time.Duration
}

// DefaultExpiryConfig returns sensible defaults.
func DefaultExpiryConfig() ExpiryConfig {
	return ExpiryConfig{
		WarnWithinDays: 30,
		DedupTTL:       24 * time.Hour,
		Timeout:        5 * time.Minute,
	}
}

// NewDetectExpiringModulesJob creates the job. notify may be nil, in which
// case warnings are only logged. locks may be nil for single-worker
// deployments.
func NewDetectExpiringModulesJob(
	specs specialization.Repository,
	locks DistributedLocker,
	log *logger.Logger,
	cfg ExpiryConfig,
	notify func(ctx context.Context, warning ExpiryWarning),
) *DetectExpiringModulesJob {
	if cfg.WarnWithinDays <= 0 {
		cfg = DefaultExpiryConfig()
	}
	return &DetectExpiringModulesJob{
		specs:  specs,
		locks:  locks,
		log:    log.With(logger.Component("detect_expiring_job")),
		cfg:    cfg,
		notify: notify,
	}
}

// Name implements scheduler.Job.
func (j *DetectExpiringModulesJob) Name() string {
	return "detect_expiring_modules"
}

// Description implements scheduler.Job.
func (j *DetectExpiringModulesJob) Description() string {
	return "Warns about active modules approaching their planned end date"
}

// Run implements scheduler.Job.
func (j *DetectExpiringModulesJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	release, acquired, err := acquireLock(ctx, j.locks, j.Name())
	if err != nil {
		return err
	}
	if !acquired {
		j.log.Info("expiry scan skipped, another worker holds the lock")
		return nil
	}
	defer release()

	ids, err := j.specs.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list specializations: %w", err)
	}

	now := timeutil.Now()
	var warned int
	for _, id := range ids {
		if ctx.Err() != nil {
			return fmt.Errorf("expiry scan interrupted: %w", ctx.Err())
		}

		spec, err := j.specs.GetByID(ctx, id)
		if err != nil {
			j.log.Error("failed to load specialization",
				logger.SpecializationID(id),
				logger.Err(err),
			)
			continue
		}

		m := spec.ActiveModule()
		if m == nil || m.HasExpired(now) {
			continue
		}

		days := m.DaysUntilEnd(now)
		if days > j.cfg.WarnWithinDays {
			continue
		}

		fresh, err := j.markWarned(ctx, m.ID)
		if err != nil {
			j.log.Warn("expiry dedup unavailable", logger.Err(err))
		} else if !fresh {
			continue
		}

		warning := ExpiryWarning{
			ResidentID:       spec.ResidentID,
			SpecializationID: spec.ID,
			ModuleID:         m.ID,
			ModuleName:       m.Name,
			EndDate:          m.EndDate,
			DaysRemaining:    days,
		}

		j.log.Warn("module approaching end date",
			logger.ResidentID(warning.ResidentID),
			logger.SpecializationID(warning.SpecializationID),
			logger.ModuleID(warning.ModuleID),
			logger.Int("days_remaining", days),
			logger.Time("end_date", m.EndDate),
		)
		if j.notify != nil {
			j.notify(ctx, warning)
		}
		warned++
	}

	j.log.Info("expiry scan completed",
		logger.Int("scanned", len(ids)),
		logger.Int("warned", warned),
	)
	return nil
}

// markWarned reports whether this module has not been warned about within the
// dedup window. Without a locker every run warns again.
func (j *DetectExpiringModulesJob) markWarned(ctx context.Context, moduleID string) (bool, error) {
	if j.locks == nil {
		return true, nil
	}
	key := "module-expiry-warned:" + moduleID
	return j.locks.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), j.cfg.DedupTTL)
}
