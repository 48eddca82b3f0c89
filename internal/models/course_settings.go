package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DetectorName identifies a proctoring check
type DetectorName string

const (
	BlurDetector              DetectorName = "blurDetector"
	FaceCountDetector         DetectorName = "faceCountDetector"
	HandGestureDetector       DetectorName = "handGestureDetector"
	VoiceDetection            DetectorName = "voiceDetection"
	VirtualBackgroundDetector DetectorName = "virtualBackgroundDetector"
	RightClickDisabler        DetectorName = "rightClickDisabler"
	FaceRecognition           DetectorName = "faceRecognition"
)

func DetectorNames() []DetectorName {
	return []DetectorName{
		BlurDetector,
		FaceCountDetector,
		HandGestureDetector,
		VoiceDetection,
		VirtualBackgroundDetector,
		RightClickDisabler,
		FaceRecognition,
	}
}

type DetectorOptions struct {
	Enabled bool `json:"enabled"`
}

type DetectorSettings struct {
	DetectorName DetectorName    `json:"detectorName" validate:"required,detector_name"`
	Settings     DetectorOptions `json:"settings"`
}

type ProctoringSettings struct {
	Detectors []DetectorSettings `json:"detectors" validate:"dive"`
}

type CourseSettingsData struct {
	Proctors ProctoringSettings `json:"proctors"`
}

// CourseSettings holds per course version configuration.
// There is at most one row per (course_id, version_id).
type CourseSettings struct {
	ID        string                                 `json:"_id" gorm:"primaryKey;size:36"`
	CourseID  string                                 `json:"courseId" gorm:"not null;size:64;uniqueIndex:idx_course_settings_course_version"`
	VersionID string                                 `json:"versionId" gorm:"not null;size:64;uniqueIndex:idx_course_settings_course_version"`
	Settings  datatypes.JSONType[CourseSettingsData] `json:"settings" gorm:"type:jsonb;not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CourseSettings) TableName() string {
	return "course_settings"
}

func (s *CourseSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// NewCourseSettings builds a settings record; nil detectors are stored as an empty list
func NewCourseSettings(courseID, versionID string, detectors []DetectorSettings) *CourseSettings {
	if detectors == nil {
		detectors = []DetectorSettings{}
	}
	return &CourseSettings{
		CourseID:  courseID,
		VersionID: versionID,
		Settings: datatypes.NewJSONType(CourseSettingsData{
			Proctors: ProctoringSettings{Detectors: detectors},
		}),
	}
}

// Detectors returns the configured proctoring detectors
func (s *CourseSettings) Detectors() []DetectorSettings {
	return s.Settings.Data().Proctors.Detectors
}
