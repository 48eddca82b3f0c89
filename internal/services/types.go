package services

import (
	"encoding/json"

	"github.com/SAP-F-2025/course-service/internal/models"
)

// ===== QUESTION REQUESTS =====

type QuestionParameterRequest struct {
	Name           string   `json:"name" validate:"required,max=64"`
	PossibleValues []string `json:"possibleValues" validate:"required,min=1"`
	Type           string   `json:"type" validate:"omitempty,oneof=number string"`
}

type QuestionRequest struct {
	Text             string                     `json:"text" validate:"required"`
	Type             models.QuestionType        `json:"type" validate:"required,question_type"`
	IsParameterized  bool                       `json:"isParameterized"`
	Parameters       []QuestionParameterRequest `json:"parameters" validate:"dive"`
	Hint             string                     `json:"hint"`
	TimeLimitSeconds int                        `json:"timeLimitSeconds" validate:"gte=0"`
	Points           int                        `json:"points" validate:"gte=0"`
}

// CreateQuestionBody is the question creation payload; the solution shape
// depends on question.type and is decoded by NewQuestion
type CreateQuestionBody struct {
	Question *QuestionRequest `json:"question" validate:"required"`
	Solution json.RawMessage  `json:"solution" validate:"required"`
}

// ImportRowError describes why a single imported row was rejected
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	ErrorCount   int              `json:"errorCount"`
	Errors       []ImportRowError `json:"errors"`
	QuestionIDs  []string         `json:"questionIds,omitempty"`
}

// ===== COURSE SETTINGS REQUESTS =====

type CourseSettingsDataRequest struct {
	Proctors models.ProctoringSettings `json:"proctors"`
}

type CreateCourseSettingsBody struct {
	CourseID  string                     `json:"courseId" validate:"required,max=64"`
	VersionID string                     `json:"versionId" validate:"required,max=64"`
	Settings  *CourseSettingsDataRequest `json:"settings"`
}

type ReadCourseSettingsParams struct {
	CourseID  string `uri:"courseId" validate:"required,max=64"`
	VersionID string `uri:"versionId" validate:"required,max=64"`
}

type AddCourseProctoringParams = ReadCourseSettingsParams
type RemoveCourseProctoringParams = ReadCourseSettingsParams

type AddCourseProctoringBody struct {
	Detectors []models.DetectorSettings `json:"detectors" validate:"required,dive"`
}

type RemoveCourseProctoringBody struct {
	DetectorName models.DetectorName `json:"detectorName" validate:"required,detector_name"`
}

type SuccessFlagResponse struct {
	Success bool `json:"success"`
}

// ===== USER REQUESTS =====

// GetUserParams carries the Firebase UID of the user to find
type GetUserParams struct {
	UserID string `uri:"userId" validate:"required,max=128"`
}

// GetUserResponse is the read-only projection of a user
type GetUserResponse struct {
	ID          string            `json:"_id"`
	FirebaseUID string            `json:"firebaseUID"`
	Email       string            `json:"email"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Roles       []models.UserRole `json:"roles"`
}

type EditUserBody struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// UserNotFoundErrorResponse is returned when a Firebase UID matches no user
type UserNotFoundErrorResponse struct {
	Message string `json:"message"`
}

const UserNotFoundMessage = "User not found with the provided Firebase UID"

func NewGetUserResponse(user *models.User) *GetUserResponse {
	roles := []models.UserRole(user.Roles)
	if roles == nil {
		roles = []models.UserRole{}
	}
	return &GetUserResponse{
		ID:          user.ID,
		FirebaseUID: user.FirebaseUID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Roles:       roles,
	}
}
