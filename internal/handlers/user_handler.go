package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// GetUserByFirebaseUID
// @Summary Get user by Firebase UID
// @Tags users
// @Produce json
// @Param userId path string true "Firebase UID"
// @Success 200 {object} services.GetUserResponse
// @Failure 404 {object} services.UserNotFoundErrorResponse
// @Router /users/firebase/{userId} [get]
func (h *UserHandler) GetUserByFirebaseUID(c *gin.Context) {
	var params services.GetUserParams
	if !h.bindURI(c, &params) {
		return
	}

	h.LogRequest(c, "Getting user", "firebase_uid", params.UserID)

	user, err := h.userService.GetByFirebaseUID(c.Request.Context(), &params)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserName
// @Summary Update a user's name
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "Firebase UID"
// @Param body body services.EditUserBody true "Name"
// @Success 200 {object} services.GetUserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} services.UserNotFoundErrorResponse
// @Router /users/firebase/{userId} [put]
func (h *UserHandler) UpdateUserName(c *gin.Context) {
	var params services.GetUserParams
	if !h.bindURI(c, &params) {
		return
	}

	var body services.EditUserBody
	if !h.bindJSON(c, &body) {
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	h.LogRequest(c, "Updating user name", "firebase_uid", params.UserID)

	user, err := h.userService.UpdateName(c.Request.Context(), caller, &params, &body)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		h.LogWarn(c, "user not found", "error", err)
		c.JSON(http.StatusNotFound, services.UserNotFoundErrorResponse{
			Message: services.UserNotFoundMessage,
		})
		return
	}
	h.handleServiceError(c, err)
}
