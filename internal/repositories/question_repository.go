package repositories

import (
	"context"

	"github.com/SAP-F-2025/course-service/internal/models"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *models.QuestionRecord) error
	// CreateBatch stores every question or none of them
	CreateBatch(ctx context.Context, questions []*models.QuestionRecord) error
}
