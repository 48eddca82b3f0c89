package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var permissionError *services.PermissionError
	var businessRuleError *services.BusinessRuleError

	switch {
	case errors.As(err, &businessRuleError):
		h.RespondWithError(c, http.StatusBadRequest, businessRuleError.Message, err, map[string]interface{}{
			"rule":    businessRuleError.Rule,
			"context": businessRuleError.Context,
		})
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, services.ClientMessage(err), err)
	case errors.Is(err, services.ErrImportUnsupportedFormat), errors.Is(err, services.ErrImportEmptyFile):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &permissionError):
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
