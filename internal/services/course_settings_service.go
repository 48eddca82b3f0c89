package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type CourseSettingsService interface {
	Create(ctx context.Context, body *CreateCourseSettingsBody) (*models.CourseSettings, error)
	// Get returns nil, nil when the course version has no settings
	Get(ctx context.Context, params *ReadCourseSettingsParams) (*models.CourseSettings, error)
	// UpdateProctoring reports false when the course version has no settings
	UpdateProctoring(ctx context.Context, params *AddCourseProctoringParams, body *AddCourseProctoringBody) (bool, error)
	// RemoveProctoring reports false when nothing was removed
	RemoveProctoring(ctx context.Context, params *RemoveCourseProctoringParams, body *RemoveCourseProctoringBody) (bool, error)
}

type courseSettingsService struct {
	repo        repositories.Repository
	cache       cache.CacheService
	cacheTTL    time.Duration
	repairDelay time.Duration
	publisher   events.EventPublisher
	validator   *validator.Validator
	log         *ServiceLogger
}

func NewCourseSettingsService(deps Dependencies) CourseSettingsService {
	return &courseSettingsService{
		repo:        deps.Repo,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		repairDelay: deps.cacheRepairDelay(),
		publisher:   deps.Publisher,
		validator:   deps.Validator,
		log:         NewServiceLogger(deps.Logger, "course_settings"),
	}
}

func (s *courseSettingsService) Create(ctx context.Context, body *CreateCourseSettingsBody) (settings *models.CourseSettings, err error) {
	op := s.log.WithOperation(ctx, "create_course_settings", "")
	defer func() { op.LogResult(resourceID(body), "course_settings", err) }()

	if body == nil {
		return nil, NewValidationError("body", "is required", nil)
	}
	if err := s.validator.Validate(body); err != nil {
		return nil, err
	}

	var detectors []models.DetectorSettings
	if body.Settings != nil {
		detectors = body.Settings.Proctors.Detectors
	}

	settings = models.NewCourseSettings(body.CourseID, body.VersionID, detectors)
	if err := s.repo.CourseSettings().Create(ctx, settings); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrCourseSettingsExists, body.CourseID, body.VersionID)
		}
		return nil, fmt.Errorf("failed to create course settings: %w", err)
	}

	invalidateCache(ctx, s.cache, s.log, cache.CourseSettingsKey(settings.CourseID, settings.VersionID), s.repairDelay)
	publishEvent(ctx, s.publisher, s.log, events.NewCourseSettingsCreatedEvent(settings))

	return settings, nil
}

func (s *courseSettingsService) Get(ctx context.Context, params *ReadCourseSettingsParams) (*models.CourseSettings, error) {
	if params == nil {
		return nil, NewValidationError("params", "is required", nil)
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	key := cache.CourseSettingsKey(params.CourseID, params.VersionID)

	var cached models.CourseSettings
	if readCache(ctx, s.cache, s.log, key, &cached) {
		return &cached, nil
	}

	settings, err := s.repo.CourseSettings().GetByCourseVersion(ctx, params.CourseID, params.VersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read course settings: %w", err)
	}
	if settings == nil {
		return nil, nil
	}

	writeCache(ctx, s.cache, s.log, key, settings, s.cacheTTL)
	return settings, nil
}

func (s *courseSettingsService) UpdateProctoring(ctx context.Context, params *AddCourseProctoringParams, body *AddCourseProctoringBody) (updated bool, err error) {
	op := s.log.WithOperation(ctx, "update_course_proctoring", "")
	defer func() { op.LogResult(paramsID(params), "course_settings", err) }()

	if params == nil || body == nil {
		return false, NewValidationError("body", "is required", nil)
	}
	if err := s.validator.Validate(params); err != nil {
		return false, err
	}
	if err := s.validator.Validate(body); err != nil {
		return false, err
	}

	updated, err = s.repo.CourseSettings().UpdateDetectors(ctx, params.CourseID, params.VersionID, body.Detectors)
	if err != nil {
		return false, fmt.Errorf("failed to update proctoring: %w", err)
	}
	if !updated {
		return false, nil
	}

	invalidateCache(ctx, s.cache, s.log, cache.CourseSettingsKey(params.CourseID, params.VersionID), s.repairDelay)
	publishEvent(ctx, s.publisher, s.log,
		events.NewCourseProctoringUpdatedEvent(params.CourseID, params.VersionID, body.Detectors))

	return true, nil
}

func (s *courseSettingsService) RemoveProctoring(ctx context.Context, params *RemoveCourseProctoringParams, body *RemoveCourseProctoringBody) (removed bool, err error) {
	op := s.log.WithOperation(ctx, "remove_course_proctoring", "")
	defer func() { op.LogResult(paramsID(params), "course_settings", err) }()

	if params == nil || body == nil {
		return false, NewValidationError("body", "is required", nil)
	}
	if err := s.validator.Validate(params); err != nil {
		return false, err
	}
	if err := s.validator.Validate(body); err != nil {
		return false, err
	}

	removed, err = s.repo.CourseSettings().RemoveDetector(ctx, params.CourseID, params.VersionID, body.DetectorName)
	if err != nil {
		return false, fmt.Errorf("failed to remove proctoring detector: %w", err)
	}
	if !removed {
		return false, nil
	}

	invalidateCache(ctx, s.cache, s.log, cache.CourseSettingsKey(params.CourseID, params.VersionID), s.repairDelay)
	publishEvent(ctx, s.publisher, s.log,
		events.NewCourseProctoringRemovedEvent(params.CourseID, params.VersionID, body.DetectorName))

	return true, nil
}

func resourceID(body *CreateCourseSettingsBody) string {
	if body == nil {
		return ""
	}
	return body.CourseID + "/" + body.VersionID
}

func paramsID(params *ReadCourseSettingsParams) string {
	if params == nil {
		return ""
	}
	return params.CourseID + "/" + params.VersionID
}
