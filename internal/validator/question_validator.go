package validator

import (
	"regexp"
	"strings"

	"github.com/SAP-F-2025/course-service/internal/models"
)

const maxDecimalPrecision = 10

var qParamTag = regexp.MustCompile(`<QParam>\s*(.*?)\s*</QParam>`)

// QuestionRulesValidator enforces the business rules of one question type
type QuestionRulesValidator interface {
	ValidateRules(question models.Question) error
}

// ResolveQuestionRules picks the rules validator matching the question's type
func ResolveQuestionRules(question models.Question) (QuestionRulesValidator, error) {
	if question == nil {
		return nil, ruleError("question_required", "question is required")
	}

	switch question.(type) {
	case *models.SOLQuestion:
		return selectOneInLotRules{}, nil
	case *models.SMLQuestion:
		return selectManyInLotRules{}, nil
	case *models.OTLQuestion:
		return orderTheLotsRules{}, nil
	case *models.NATQuestion:
		return numericAnswerRules{}, nil
	case *models.DESQuestion:
		return descriptiveRules{}, nil
	default:
		return nil, ruleError("question_type", "unsupported question type: %s", question.Base().Type)
	}
}

// ===== SHARED RULES =====

func validateBase(base *models.QuestionBase) error {
	if strings.TrimSpace(base.Text) == "" {
		return ruleError("question_text", "question text is required")
	}
	if base.Points < 0 {
		return ruleError("question_points", "question points cannot be negative")
	}
	if base.TimeLimitSeconds < 0 {
		return ruleError("question_time_limit", "question time limit cannot be negative")
	}

	used := usedParameters(base.Text, base.Hint)

	if !base.IsParameterized {
		if len(used) > 0 {
			return ruleError("question_parameters", "question is not parameterized but uses parameter '%s'", used[0])
		}
		return nil
	}

	if len(base.Parameters) == 0 {
		return ruleError("question_parameters", "parameterized question must define at least 1 parameter")
	}

	declared := make(map[string]bool, len(base.Parameters))
	for _, param := range base.Parameters {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return ruleError("question_parameters", "parameter name cannot be empty")
		}
		if declared[name] {
			return ruleError("question_parameters", "parameter '%s' is defined more than once", name)
		}
		if len(param.PossibleValues) == 0 {
			return ruleError("question_parameters", "parameter '%s' must have at least 1 possible value", name)
		}
		declared[name] = true
	}

	for _, name := range used {
		if !declared[name] {
			return ruleError("question_parameters", "parameter '%s' used in question is not defined", name).
				WithContext("parameter", name)
		}
	}

	return nil
}

func usedParameters(texts ...string) []string {
	var names []string
	for _, text := range texts {
		for _, match := range qParamTag.FindAllStringSubmatch(text, -1) {
			names = append(names, match[1])
		}
	}
	return names
}

// validateLotItems checks that every item has text and no text repeats
func validateLotItems(items []models.LotItem) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return ruleError("lot_item_text", "lot item text cannot be empty")
		}
		key := strings.ToLower(text)
		if seen[key] {
			return ruleError("lot_item_unique", "lot item texts must be unique: '%s'", text).
				WithContext("text", text)
		}
		seen[key] = true
	}
	return nil
}

func typeMismatch(expected models.QuestionType, question models.Question) error {
	return ruleError("question_type", "expected %s question, got %s", expected, question.Base().Type)
}

// ===== PER TYPE RULES =====

type selectOneInLotRules struct{}

func (selectOneInLotRules) ValidateRules(question models.Question) error {
	q, ok := question.(*models.SOLQuestion)
	if !ok {
		return typeMismatch(models.SelectOneInLot, question)
	}
	if err := validateBase(&q.QuestionBase); err != nil {
		return err
	}

	if strings.TrimSpace(q.Solution.CorrectLotItem.Text) == "" {
		return ruleError("sol_correct_item", "correct lot item text is required")
	}
	if len(q.Solution.IncorrectLotItems) == 0 {
		return ruleError("sol_incorrect_items", "select one in lot question must have at least 1 incorrect lot item")
	}

	items := append([]models.LotItem{q.Solution.CorrectLotItem}, q.Solution.IncorrectLotItems...)
	return validateLotItems(items)
}

type selectManyInLotRules struct{}

func (selectManyInLotRules) ValidateRules(question models.Question) error {
	q, ok := question.(*models.SMLQuestion)
	if !ok {
		return typeMismatch(models.SelectManyInLot, question)
	}
	if err := validateBase(&q.QuestionBase); err != nil {
		return err
	}

	if len(q.Solution.CorrectLotItems) == 0 {
		return ruleError("sml_correct_items", "select many in lot question must have at least 1 correct lot item")
	}

	items := append(append([]models.LotItem{}, q.Solution.CorrectLotItems...), q.Solution.IncorrectLotItems...)
	if len(items) < 2 {
		return ruleError("sml_item_count", "select many in lot question must have at least 2 lot items")
	}

	return validateLotItems(items)
}

type orderTheLotsRules struct{}

func (orderTheLotsRules) ValidateRules(question models.Question) error {
	q, ok := question.(*models.OTLQuestion)
	if !ok {
		return typeMismatch(models.OrderTheLots, question)
	}
	if err := validateBase(&q.QuestionBase); err != nil {
		return err
	}

	ordering := q.Solution.Ordering
	if len(ordering) < 2 {
		return ruleError("otl_item_count", "order the lots question must have at least 2 lot items")
	}

	items := make([]models.LotItem, 0, len(ordering))
	positions := make(map[int]bool, len(ordering))
	for _, entry := range ordering {
		items = append(items, entry.LotItem)
		if entry.Order < 1 || entry.Order > len(ordering) || positions[entry.Order] {
			return ruleError("otl_order", "ordering must use each position from 1 to %d exactly once", len(ordering)).
				WithContext("order", entry.Order)
		}
		positions[entry.Order] = true
	}

	return validateLotItems(items)
}

type numericAnswerRules struct{}

func (numericAnswerRules) ValidateRules(question models.Question) error {
	q, ok := question.(*models.NATQuestion)
	if !ok {
		return typeMismatch(models.NumericAnswerType, question)
	}
	if err := validateBase(&q.QuestionBase); err != nil {
		return err
	}

	s := q.Solution
	if s.DecimalPrecision < 0 || s.DecimalPrecision > maxDecimalPrecision {
		return ruleError("nat_precision", "decimal precision must be between 0 and %d", maxDecimalPrecision)
	}
	if s.LowerLimit > s.UpperLimit {
		return ruleError("nat_limits", "lower limit cannot be greater than upper limit").
			WithContext("lowerLimit", s.LowerLimit).
			WithContext("upperLimit", s.UpperLimit)
	}

	expression := strings.TrimSpace(s.Expression)
	if s.Value == nil && expression == "" {
		return ruleError("nat_answer", "numeric answer question must have a value or an expression")
	}
	if expression != "" && !q.IsParameterized {
		return ruleError("nat_expression", "expression is only allowed for parameterized questions")
	}
	if s.Value != nil && (*s.Value < s.LowerLimit || *s.Value > s.UpperLimit) {
		return ruleError("nat_value", "value %v is outside the limits [%v, %v]", *s.Value, s.LowerLimit, s.UpperLimit).
			WithContext("value", *s.Value)
	}

	return nil
}

type descriptiveRules struct{}

func (descriptiveRules) ValidateRules(question models.Question) error {
	q, ok := question.(*models.DESQuestion)
	if !ok {
		return typeMismatch(models.Descriptive, question)
	}
	if err := validateBase(&q.QuestionBase); err != nil {
		return err
	}

	if strings.TrimSpace(q.Solution.SolutionText) == "" {
		return ruleError("des_solution", "descriptive question must have a solution text")
	}
	return nil
}
