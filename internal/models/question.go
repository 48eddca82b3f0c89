package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	SelectOneInLot    QuestionType = "SELECT_ONE_IN_LOT"
	SelectManyInLot   QuestionType = "SELECT_MANY_IN_LOT"
	OrderTheLots      QuestionType = "ORDER_THE_LOTS"
	NumericAnswerType QuestionType = "NUMERIC_ANSWER_TYPE"
	Descriptive       QuestionType = "DESCRIPTIVE"
)

// QuestionTypes lists every supported question type
func QuestionTypes() []QuestionType {
	return []QuestionType{
		SelectOneInLot,
		SelectManyInLot,
		OrderTheLots,
		NumericAnswerType,
		Descriptive,
	}
}

func (t QuestionType) IsValid() bool {
	for _, known := range QuestionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// QuestionParameter is a named placeholder of a parameterized question
type QuestionParameter struct {
	Name           string   `json:"name"`
	PossibleValues []string `json:"possibleValues"`
	Type           string   `json:"type"` // number or string
}

// QuestionBase holds the fields shared by every question type
type QuestionBase struct {
	Text             string              `json:"text"`
	Type             QuestionType        `json:"type"`
	IsParameterized  bool                `json:"isParameterized"`
	Parameters       []QuestionParameter `json:"parameters,omitempty"`
	Hint             string              `json:"hint,omitempty"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds"`
	Points           int                 `json:"points"`
}

// Question is a typed question built from a create payload
type Question interface {
	Base() *QuestionBase
	SolutionPayload() any
}

// LotItem is a single option of a choice or ordering question.
// "explaination" is the field name used on the wire.
type LotItem struct {
	Text         string `json:"text"`
	Explaination string `json:"explaination,omitempty"`
}

type LotItemOrder struct {
	LotItem LotItem `json:"lotItem"`
	Order   int     `json:"order"`
}

// ===== SOLUTIONS =====

type SOLSolution struct {
	CorrectLotItem    LotItem   `json:"correctLotItem"`
	IncorrectLotItems []LotItem `json:"incorrectLotItems"`
}

type SMLSolution struct {
	CorrectLotItems   []LotItem `json:"correctLotItems"`
	IncorrectLotItems []LotItem `json:"incorrectLotItems"`
}

type OTLSolution struct {
	Ordering []LotItemOrder `json:"ordering"`
}

type NATSolution struct {
	DecimalPrecision int      `json:"decimalPrecision"`
	LowerLimit       float64  `json:"lowerLimit"`
	UpperLimit       float64  `json:"upperLimit"`
	Value            *float64 `json:"value,omitempty"`
	Expression       string   `json:"expression,omitempty"`
}

type DESSolution struct {
	SolutionText string `json:"solutionText"`
}

// ===== TYPED QUESTIONS =====

type SOLQuestion struct {
	QuestionBase
	Solution SOLSolution
}

func (q *SOLQuestion) Base() *QuestionBase  { return &q.QuestionBase }
func (q *SOLQuestion) SolutionPayload() any { return q.Solution }

type SMLQuestion struct {
	QuestionBase
	Solution SMLSolution
}

func (q *SMLQuestion) Base() *QuestionBase  { return &q.QuestionBase }
func (q *SMLQuestion) SolutionPayload() any { return q.Solution }

type OTLQuestion struct {
	QuestionBase
	Solution OTLSolution
}

func (q *OTLQuestion) Base() *QuestionBase  { return &q.QuestionBase }
func (q *OTLQuestion) SolutionPayload() any { return q.Solution }

type NATQuestion struct {
	QuestionBase
	Solution NATSolution
}

func (q *NATQuestion) Base() *QuestionBase  { return &q.QuestionBase }
func (q *NATQuestion) SolutionPayload() any { return q.Solution }

type DESQuestion struct {
	QuestionBase
	Solution DESSolution
}

func (q *DESQuestion) Base() *QuestionBase  { return &q.QuestionBase }
func (q *DESQuestion) SolutionPayload() any { return q.Solution }

// ===== PERSISTENCE =====

// QuestionRecord is the stored form of a question; the solution is kept as JSON
type QuestionRecord struct {
	ID               string         `json:"_id" gorm:"primaryKey;size:36"`
	Type             QuestionType   `json:"type" gorm:"not null;size:32;index"`
	Text             string         `json:"text" gorm:"type:text;not null"`
	Hint             string         `json:"hint" gorm:"type:text"`
	IsParameterized  bool           `json:"isParameterized"`
	Parameters       datatypes.JSON `json:"parameters" gorm:"type:jsonb"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	Points           int            `json:"points"`
	Solution         datatypes.JSON `json:"solution" gorm:"type:jsonb"`

	CreatedBy string    `json:"createdBy" gorm:"size:128;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (QuestionRecord) TableName() string {
	return "questions"
}

func (q *QuestionRecord) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// NewQuestionRecord flattens a typed question into its stored form
func NewQuestionRecord(q Question, createdBy string) (*QuestionRecord, error) {
	base := q.Base()

	params, err := json.Marshal(base.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}

	solution, err := json.Marshal(q.SolutionPayload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal solution: %w", err)
	}

	return &QuestionRecord{
		Type:             base.Type,
		Text:             base.Text,
		Hint:             base.Hint,
		IsParameterized:  base.IsParameterized,
		Parameters:       datatypes.JSON(params),
		TimeLimitSeconds: base.TimeLimitSeconds,
		Points:           base.Points,
		Solution:         datatypes.JSON(solution),
		CreatedBy:        createdBy,
	}, nil
}
