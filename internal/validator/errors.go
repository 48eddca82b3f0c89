package validator

import (
	"github.com/SAP-F-2025/course-service/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors
type BusinessRuleError = errors.BusinessRuleError

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

func ruleError(rule, format string, args ...interface{}) *BusinessRuleError {
	return errors.NewBusinessRuleError(rule, format, args...)
}
