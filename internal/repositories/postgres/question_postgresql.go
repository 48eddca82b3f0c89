package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"gorm.io/gorm"
)

const questionBatchSize = 100

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create stores a single question; the ID is assigned on insert when empty
func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.QuestionRecord) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", translateError(err))
	}
	return nil
}

// CreateBatch inserts all questions in one transaction
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.QuestionRecord) error {
	if len(questions) == 0 {
		return nil
	}

	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(questions, questionBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create questions: %w", translateError(err))
		}
		return nil
	})
}
