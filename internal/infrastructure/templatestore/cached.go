package templatestore

import (
	"context"
	"errors"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/rezhub/residency-progress-hub/pkg/circuitbreaker"
	"github.com/rezhub/residency-progress-hub/pkg/logger"
	"github.com/rezhub/residency-progress-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED STORE
// Read path: Redis → registry (with retry + circuit breaker) → Redis.
// Not-found results are cached negatively so a misconfigured program code
// does not turn every record submission into a registry round trip.
// ══════════════════════════════════════════════════════════════════════════════

// CachedStore decorates the registry client with a Redis cache, retries, and
// a circuit breaker. It implements curriculum.TemplateStore.
type CachedStore struct {
	upstream curriculum.TemplateStore
	cache    *redis.Cache
	retrier  *retry.Retrier
	breaker  *circuitbreaker.CircuitBreaker
	log      *logger.Logger
}

// NewCachedStore composes the cached template store.
func NewCachedStore(upstream curriculum.TemplateStore, cache *redis.Cache, log *logger.Logger) *CachedStore {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("templatestore"))

	breaker := circuitbreaker.TemplateServiceBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state change",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &CachedStore{
		upstream: upstream,
		cache:    cache,
		retrier:  retry.TemplateServiceRetrier(),
		breaker:  breaker,
		log:      log,
	}
}

// GetTemplate returns the full template for a (program, track) pair.
func (s *CachedStore) GetTemplate(ctx context.Context, programCode string, track curriculum.Track) (*curriculum.Template, error) {
	key := redis.TemplateKey(programCode, string(track))
	negKey := redis.NegativeKey(programCode, string(track))

	var cached templateDTO
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		return cached.toDomain(), nil
	case !errors.Is(err, redis.ErrCacheMiss):
		s.log.Warn("template cache read failed", logger.Err(err))
	}

	if hit, err := s.cache.Exists(ctx, negKey); err == nil && hit {
		return nil, shared.ErrTemplateNotFound
	}

	tpl, err := s.fetchTemplate(ctx, programCode, track)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if cacheErr := s.cache.Set(ctx, negKey, true, redis.TTLNegative); cacheErr != nil {
				s.log.Warn("negative cache write failed", logger.Err(cacheErr))
			}
		}
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, key, fromDomain(tpl), redis.TTLTemplate); cacheErr != nil {
		s.log.Warn("template cache write failed", logger.Err(cacheErr))
	}
	return tpl, nil
}

// GetModuleTemplate returns a single module definition.
func (s *CachedStore) GetModuleTemplate(ctx context.Context, programCode string, track curriculum.Track, moduleID string) (*curriculum.ModuleTemplate, error) {
	tpl, err := s.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	m := tpl.FindModule(moduleID)
	if m == nil {
		return nil, shared.ErrModuleTemplateNotFound
	}
	return m, nil
}

// GetInternshipTemplate returns an internship definition by ID.
func (s *CachedStore) GetInternshipTemplate(ctx context.Context, programCode string, track curriculum.Track, internshipID string) (*curriculum.InternshipTemplate, error) {
	tpl, err := s.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	i, _ := tpl.FindInternship(internshipID)
	if i == nil {
		return nil, shared.ErrTemplateNotFound
	}
	return i, nil
}

// GetCourseTemplate returns a course definition by ID.
func (s *CachedStore) GetCourseTemplate(ctx context.Context, programCode string, track curriculum.Track, courseID string) (*curriculum.CourseTemplate, error) {
	tpl, err := s.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	c, _ := tpl.FindCourse(courseID)
	if c == nil {
		return nil, shared.ErrTemplateNotFound
	}
	return c, nil
}

// Invalidate drops all cached variants of a program. Called when the registry
// announces a republished curriculum.
func (s *CachedStore) Invalidate(ctx context.Context, programCode string) error {
	if err := s.cache.DeleteByPattern(ctx, redis.PrefixTemplate+programCode+":*"); err != nil {
		return err
	}
	return s.cache.DeleteByPattern(ctx, redis.PrefixNegative+programCode+":*")
}

// fetchTemplate calls the registry through the breaker with retries.
// Not-found is permanent; transient registry failures are retried.
func (s *CachedStore) fetchTemplate(ctx context.Context, programCode string, track curriculum.Track) (*curriculum.Template, error) {
	var tpl *curriculum.Template

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.retrier.Do(ctx, func(ctx context.Context) error {
			var err error
			tpl, err = s.upstream.GetTemplate(ctx, programCode, track)
			if err == nil {
				return nil
			}
			if errors.Is(err, shared.ErrNotFound) {
				return retry.Permanent(err)
			}
			return retry.Retryable(err)
		})
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}
