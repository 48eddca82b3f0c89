package postgres

import (
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	question       repositories.QuestionRepository
	courseSettings repositories.CourseSettingsRepository
	user           repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &PostgresRepository{
		question:       NewQuestionPostgreSQL(db),
		courseSettings: NewCourseSettingsPostgreSQL(db),
		user:           NewUserPostgreSQL(db),
	}
}

func (r *PostgresRepository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *PostgresRepository) CourseSettings() repositories.CourseSettingsRepository {
	return r.courseSettings
}

func (r *PostgresRepository) User() repositories.UserRepository {
	return r.user
}
