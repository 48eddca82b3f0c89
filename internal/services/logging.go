package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "course-service", "component", component),
	}
}

// LogOperation logs the outcome of one operation; expected client errors are
// logged below error level
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.Duration("duration", duration),
	}

	if err != nil {
		level, status = slog.LevelError, "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level, status = slog.LevelWarn, "validation_error"
		case IsUnauthorized(err):
			level, status = slog.LevelWarn, "unauthorized"
		case IsNotFound(err):
			status = "not_found"
		case IsConflict(err):
			level, status = slog.LevelWarn, "conflict"
		}

		attrs = append(attrs, slog.String("error", err.Error()))

		var ve ValidationErrors
		var bre *BusinessRuleError
		var pe *PermissionError
		switch {
		case errors.As(err, &ve):
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		case errors.As(err, &bre):
			attrs = append(attrs, slog.String("business_rule", bre.Rule))
		case errors.As(err, &pe):
			attrs = append(attrs, slog.String("permission_action", pe.Action))
		}
	}

	attrs = append(attrs, slog.String("status", status))
	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// Warn logs a degraded dependency that did not fail the operation
func (l *ServiceLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ContextualLogger times an operation and logs its result
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, resourceID, resourceType, time.Since(cl.startTime), err)
}
