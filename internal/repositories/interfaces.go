package repositories

import "errors"

// ErrDuplicate is returned when a write violates a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// Repository groups the stores used by the service layer
type Repository interface {
	Question() QuestionRepository
	CourseSettings() CourseSettingsRepository
	User() UserRepository
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
