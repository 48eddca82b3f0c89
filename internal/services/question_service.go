package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type QuestionService interface {
	// Create validates the payload against its type's rules and stores it
	Create(ctx context.Context, body *CreateQuestionBody, userID string) (*models.QuestionRecord, error)
}

type questionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	log       *ServiceLogger
}

func NewQuestionService(deps Dependencies) QuestionService {
	return &questionService{
		repo:      deps.Repo,
		publisher: deps.Publisher,
		validator: deps.Validator,
		log:       NewServiceLogger(deps.Logger, "question"),
	}
}

func (s *questionService) Create(ctx context.Context, body *CreateQuestionBody, userID string) (record *models.QuestionRecord, err error) {
	op := s.log.WithOperation(ctx, "create_question", userID)
	defer func() {
		id := ""
		if record != nil {
			id = record.ID
		}
		op.LogResult(id, "question", err)
	}()

	record, err = buildQuestionRecord(s.validator, body, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store question: %w", err)
	}

	publishEvent(ctx, s.publisher, s.log, events.NewQuestionCreatedEvent(record.ID, record.Type, userID))
	return record, nil
}

// buildQuestionRecord runs struct validation, the type factory and the
// type's business rules, then flattens the result for storage
func buildQuestionRecord(v *validator.Validator, body *CreateQuestionBody, userID string) (*models.QuestionRecord, error) {
	if body == nil {
		return nil, NewValidationError("question", "is required", nil)
	}
	if err := v.Validate(body); err != nil {
		return nil, err
	}

	question, err := NewQuestion(body)
	if err != nil {
		return nil, err
	}

	if err := v.ValidateQuestion(question); err != nil {
		return nil, err
	}

	return models.NewQuestionRecord(question, userID)
}
