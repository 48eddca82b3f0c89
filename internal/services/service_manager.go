package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// Caller is the authenticated principal a service call is made for
type Caller struct {
	UserID string
	Roles  []models.UserRole
}

func (c Caller) HasRole(role models.UserRole) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	defaultCacheRepairDelay = 500 * time.Millisecond
	cacheRepairTimeout      = 2 * time.Second
)

// Dependencies bundles what every service needs; Cache may be nil
type Dependencies struct {
	Repo     repositories.Repository
	Cache    cache.CacheService
	CacheTTL time.Duration
	// CacheRepairDelay is how long after a write its cache key is dropped a
	// second time; zero means defaultCacheRepairDelay
	CacheRepairDelay time.Duration
	Publisher        events.EventPublisher
	Validator        *validator.Validator
	Logger           *slog.Logger
}

func (d Dependencies) cacheRepairDelay() time.Duration {
	if d.CacheRepairDelay > 0 {
		return d.CacheRepairDelay
	}
	return defaultCacheRepairDelay
}

type ServiceManager interface {
	Question() QuestionService
	Import() ImportService
	CourseSettings() CourseSettingsService
	User() UserService
}

type serviceManager struct {
	question       QuestionService
	importer       ImportService
	courseSettings CourseSettingsService
	user           UserService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{
		question:       NewQuestionService(deps),
		importer:       NewImportService(deps),
		courseSettings: NewCourseSettingsService(deps),
		user:           NewUserService(deps),
	}
}

func (m *serviceManager) Question() QuestionService             { return m.question }
func (m *serviceManager) Import() ImportService                 { return m.importer }
func (m *serviceManager) CourseSettings() CourseSettingsService { return m.courseSettings }
func (m *serviceManager) User() UserService                     { return m.user }

// publishEvent never fails the caller; the write it reports has already happened
func publishEvent(ctx context.Context, publisher events.EventPublisher, log *ServiceLogger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn(ctx, "Event publication failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

// readCache reports whether dest was filled from the cache
func readCache(ctx context.Context, c cache.CacheService, log *ServiceLogger, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	err := c.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn(ctx, "Cache read failed", "key", key, "error", err)
	}
	return false
}

func writeCache(ctx context.Context, c cache.CacheService, log *ServiceLogger, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Warn(ctx, "Cache write failed", "key", key, "error", err)
	}
}

// invalidateCache drops key now and again after repairDelay. A read that
// missed the cache before the write may still store the old row; the second
// delete evicts it.
func invalidateCache(ctx context.Context, c cache.CacheService, log *ServiceLogger, key string, repairDelay time.Duration) {
	if c == nil {
		return
	}
	deleteCacheKey(ctx, c, log, key)

	detached := context.WithoutCancel(ctx)
	time.AfterFunc(repairDelay, func() {
		ctx, cancel := context.WithTimeout(detached, cacheRepairTimeout)
		defer cancel()
		deleteCacheKey(ctx, c, log, key)
	})
}

func deleteCacheKey(ctx context.Context, c cache.CacheService, log *ServiceLogger, key string) {
	if err := c.Delete(ctx, key); err != nil {
		log.Warn(ctx, "Cache invalidation failed", "key", key, "error", err)
	}
}
