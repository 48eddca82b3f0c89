package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseSettingsPostgreSQL struct {
	db *gorm.DB
}

func NewCourseSettingsPostgreSQL(db *gorm.DB) repositories.CourseSettingsRepository {
	return &CourseSettingsPostgreSQL{db: db}
}

func (c *CourseSettingsPostgreSQL) Create(ctx context.Context, settings *models.CourseSettings) error {
	if err := c.db.WithContext(ctx).Create(settings).Error; err != nil {
		return fmt.Errorf("failed to create course settings: %w", translateError(err))
	}
	return nil
}

func (c *CourseSettingsPostgreSQL) GetByCourseVersion(ctx context.Context, courseID, versionID string) (*models.CourseSettings, error) {
	var settings models.CourseSettings
	err := c.byCourseVersion(c.db.WithContext(ctx), courseID, versionID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course settings: %w", err)
	}
	return &settings, nil
}

// UpdateDetectors rewrites settings.proctors.detectors in place so other
// settings keys are left untouched
func (c *CourseSettingsPostgreSQL) UpdateDetectors(ctx context.Context, courseID, versionID string, detectors []models.DetectorSettings) (bool, error) {
	if detectors == nil {
		detectors = []models.DetectorSettings{}
	}
	payload, err := json.Marshal(detectors)
	if err != nil {
		return false, fmt.Errorf("failed to marshal detectors: %w", err)
	}

	result := c.byCourseVersion(c.db.WithContext(ctx).Model(&models.CourseSettings{}), courseID, versionID).
		Updates(map[string]interface{}{
			"settings":   gorm.Expr("jsonb_set(settings, '{proctors,detectors}', ?::jsonb, true)", string(payload)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update detectors: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemoveDetector locks the row so concurrent removals do not lose writes
func (c *CourseSettingsPostgreSQL) RemoveDetector(ctx context.Context, courseID, versionID string, name models.DetectorName) (bool, error) {
	removed := false

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settings models.CourseSettings
		err := c.byCourseVersion(tx.Clauses(clause.Locking{Strength: "UPDATE"}), courseID, versionID).
			First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		data := settings.Settings.Data()
		kept := make([]models.DetectorSettings, 0, len(data.Proctors.Detectors))
		for _, d := range data.Proctors.Detectors {
			if d.DetectorName == name {
				removed = true
				continue
			}
			kept = append(kept, d)
		}
		if !removed {
			return nil
		}

		data.Proctors.Detectors = kept
		return tx.Model(&models.CourseSettings{}).
			Where("id = ?", settings.ID).
			Updates(map[string]interface{}{
				"settings":   datatypes.NewJSONType(data),
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove detector: %w", err)
	}

	return removed, nil
}

func (c *CourseSettingsPostgreSQL) byCourseVersion(db *gorm.DB, courseID, versionID string) *gorm.DB {
	return db.Where("course_id = ? AND version_id = ?", courseID, versionID)
}
