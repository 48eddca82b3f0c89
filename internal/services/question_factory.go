package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/course-service/internal/models"
)

// NewQuestion builds the typed question matching body.Question.Type and
// decodes the type's solution into it
func NewQuestion(body *CreateQuestionBody) (models.Question, error) {
	if body == nil || body.Question == nil {
		return nil, NewValidationError("question", "is required", nil)
	}

	base := toQuestionBase(body.Question)

	var question models.Question
	var solution interface{}

	switch base.Type {
	case models.SelectOneInLot:
		q := &models.SOLQuestion{QuestionBase: base}
		question, solution = q, &q.Solution
	case models.SelectManyInLot:
		q := &models.SMLQuestion{QuestionBase: base}
		question, solution = q, &q.Solution
	case models.OrderTheLots:
		q := &models.OTLQuestion{QuestionBase: base}
		question, solution = q, &q.Solution
	case models.NumericAnswerType:
		q := &models.NATQuestion{QuestionBase: base}
		question, solution = q, &q.Solution
	case models.Descriptive:
		q := &models.DESQuestion{QuestionBase: base}
		question, solution = q, &q.Solution
	default:
		return nil, fmt.Errorf("%w: %s", ErrQuestionInvalidType, base.Type)
	}

	if err := decodeSolution(body.Solution, solution); err != nil {
		return nil, err
	}
	return question, nil
}

func toQuestionBase(req *QuestionRequest) models.QuestionBase {
	base := models.QuestionBase{
		Text:             req.Text,
		Type:             req.Type,
		IsParameterized:  req.IsParameterized,
		Hint:             req.Hint,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Points:           req.Points,
	}

	for _, p := range req.Parameters {
		base.Parameters = append(base.Parameters, models.QuestionParameter{
			Name:           p.Name,
			PossibleValues: p.PossibleValues,
			Type:           p.Type,
		})
	}

	return base
}

// decodeSolution rejects unknown fields so a solution sent for the wrong
// question type is reported instead of silently ignored
func decodeSolution(raw json.RawMessage, dest interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%w: solution is required", ErrQuestionInvalidContent)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
	}
	return nil
}
