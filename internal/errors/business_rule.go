package errors

import "fmt"

// BusinessRuleError is raised when a payload is well-formed but breaks a
// domain rule. Message is what gets reported back to the client.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// NewBusinessRuleError creates a rule violation with a formatted message
func NewBusinessRuleError(rule, format string, args ...interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithContext attaches a key/value pair describing the offending input
func (bre *BusinessRuleError) WithContext(key string, value interface{}) *BusinessRuleError {
	if bre.Context == nil {
		bre.Context = make(map[string]interface{})
	}
	bre.Context[key] = value
	return bre
}
