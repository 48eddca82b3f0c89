package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-service/internal/middleware"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/gin-gonic/gin"
)

// bindURI binds path parameters; on failure it responds 400 and returns false
func (h *BaseHandler) bindURI(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindUri(dest); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid path parameters", err, err.Error())
		return false
	}
	return true
}

// bindJSON binds the request body; on failure it responds 400 and returns false
func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}

// callerFromContext converts the authenticated principal into a service caller
func callerFromContext(c *gin.Context) (services.Caller, bool) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return services.Caller{}, false
	}
	return services.Caller{UserID: principal.UserID, Roles: principal.Roles}, true
}
