package repositories

import (
	"context"

	"github.com/SAP-F-2025/course-service/internal/models"
)

type CourseSettingsRepository interface {
	// Create returns ErrDuplicate when the course version already has settings
	Create(ctx context.Context, settings *models.CourseSettings) error
	// GetByCourseVersion returns nil, nil when no record exists
	GetByCourseVersion(ctx context.Context, courseID, versionID string) (*models.CourseSettings, error)

	// UpdateDetectors replaces the detector list and reports whether a record matched
	UpdateDetectors(ctx context.Context, courseID, versionID string, detectors []models.DetectorSettings) (bool, error)
	// RemoveDetector drops every detector with the given name and reports whether one was removed
	RemoveDetector(ctx context.Context, courseID, versionID string, name models.DetectorName) (bool, error)
}
