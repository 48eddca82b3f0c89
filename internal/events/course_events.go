package events

import (
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of domain events this service emits
type EventType string

const (
	EventQuestionCreated EventType = "question.created"

	EventCourseSettingsCreated   EventType = "course_settings.created"
	EventCourseProctoringUpdated EventType = "course_settings.proctoring_updated"
	EventCourseProctoringRemoved EventType = "course_settings.proctoring_removed"
)

const (
	eventSource  = "course-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuestionCreatedEvent struct {
	QuestionID string              `json:"questionId"`
	Type       models.QuestionType `json:"type"`
	CreatedBy  string              `json:"createdBy"`
}

type CourseSettingsCreatedEvent struct {
	CourseID  string `json:"courseId"`
	VersionID string `json:"versionId"`
	SettingID string `json:"settingId"`
}

type CourseProctoringUpdatedEvent struct {
	CourseID  string                    `json:"courseId"`
	VersionID string                    `json:"versionId"`
	Detectors []models.DetectorSettings `json:"detectors"`
}

type CourseProctoringRemovedEvent struct {
	CourseID     string              `json:"courseId"`
	VersionID    string              `json:"versionId"`
	DetectorName models.DetectorName `json:"detectorName"`
}

// Event factory functions

func NewQuestionCreatedEvent(questionID string, questionType models.QuestionType, createdBy string) *Event {
	return newEvent(EventQuestionCreated, QuestionCreatedEvent{
		QuestionID: questionID,
		Type:       questionType,
		CreatedBy:  createdBy,
	})
}

func NewCourseSettingsCreatedEvent(settings *models.CourseSettings) *Event {
	return newEvent(EventCourseSettingsCreated, CourseSettingsCreatedEvent{
		CourseID:  settings.CourseID,
		VersionID: settings.VersionID,
		SettingID: settings.ID,
	})
}

func NewCourseProctoringUpdatedEvent(courseID, versionID string, detectors []models.DetectorSettings) *Event {
	return newEvent(EventCourseProctoringUpdated, CourseProctoringUpdatedEvent{
		CourseID:  courseID,
		VersionID: versionID,
		Detectors: detectors,
	})
}

func NewCourseProctoringRemovedEvent(courseID, versionID string, name models.DetectorName) *Event {
	return newEvent(EventCourseProctoringRemoved, CourseProctoringRemovedEvent{
		CourseID:     courseID,
		VersionID:    versionID,
		DetectorName: name,
	})
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
