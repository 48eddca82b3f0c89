package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/course-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrBadRequest = errors.New("bad request")

	// Question specific errors
	ErrQuestionInvalidType    = errors.New("invalid question type")
	ErrQuestionInvalidContent = errors.New("invalid question content for type")

	// Import specific errors
	ErrImportUnsupportedFormat = errors.New("unsupported import file format")
	ErrImportEmptyFile         = errors.New("import file has no data rows")

	// Course settings specific errors
	ErrCourseSettingsExists = errors.New("course settings already exist for this course version")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors
type BusinessRuleError = apperrors.BusinessRuleError

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized checks if error represents a permission failure
func IsUnauthorized(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrQuestionInvalidType) ||
		errors.Is(err, ErrQuestionInvalidContent) {
		return true
	}
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrCourseSettingsExists)
}

// ClientMessage renders a validation or rule failure as the text returned to clients
func ClientMessage(err error) string {
	var bre *BusinessRuleError
	if errors.As(err, &bre) {
		return bre.Message
	}

	var ve ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		parts := make([]string, 0, len(ve))
		for _, e := range ve {
			parts = append(parts, fmt.Sprintf("%s %s", e.Field, e.Message))
		}
		return strings.Join(parts, "; ")
	}

	var single *ValidationError
	if errors.As(err, &single) {
		return fmt.Sprintf("%s %s", single.Field, single.Message)
	}

	return err.Error()
}
