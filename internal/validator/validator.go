package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct tags and
// question business rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures into ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateQuestion resolves the business rules for the question's type and runs them
func (v *Validator) ValidateQuestion(question models.Question) error {
	rules, err := ResolveQuestionRules(question)
	if err != nil {
		return err
	}
	return rules.ValidateRules(question)
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("detector_name", validateDetectorName)

	// Report json names so messages match the request payload
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateDetectorName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, name := range models.DetectorNames() {
		if string(name) == value {
			return true
		}
	}
	return false
}
