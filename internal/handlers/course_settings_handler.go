package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CourseSettingsHandler struct {
	BaseHandler
	settingsService services.CourseSettingsService
}

func NewCourseSettingsHandler(settingsService services.CourseSettingsService, logger utils.Logger) *CourseSettingsHandler {
	return &CourseSettingsHandler{
		BaseHandler:     NewBaseHandler(logger),
		settingsService: settingsService,
	}
}

// CreateCourseSettings stores the settings of a course version
// @Summary Create course settings
// @Tags course-settings
// @Accept json
// @Produce json
// @Param settings body services.CreateCourseSettingsBody true "Course settings"
// @Success 201 {object} models.CourseSettings
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /settings/courses [post]
func (h *CourseSettingsHandler) CreateCourseSettings(c *gin.Context) {
	h.LogRequest(c, "Creating course settings")

	var body services.CreateCourseSettingsBody
	if !h.bindJSON(c, &body) {
		return
	}

	settings, err := h.settingsService.Create(c.Request.Context(), &body)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, settings)
}

// GetCourseSettings responds with the settings or null when none exist
// @Summary Get course settings
// @Tags course-settings
// @Produce json
// @Param courseId path string true "Course ID"
// @Param versionId path string true "Course version ID"
// @Success 200 {object} models.CourseSettings
// @Router /settings/courses/{courseId}/{versionId} [get]
func (h *CourseSettingsHandler) GetCourseSettings(c *gin.Context) {
	var params services.ReadCourseSettingsParams
	if !h.bindURI(c, &params) {
		return
	}

	h.LogRequest(c, "Getting course settings", "course_id", params.CourseID, "version_id", params.VersionID)

	settings, err := h.settingsService.Get(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateCourseProctoring replaces the detector list of a course version
// @Summary Update course proctoring
// @Tags course-settings
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param versionId path string true "Course version ID"
// @Param body body services.AddCourseProctoringBody true "Detectors"
// @Success 200 {object} services.SuccessFlagResponse
// @Router /settings/courses/{courseId}/{versionId}/proctoring [put]
func (h *CourseSettingsHandler) UpdateCourseProctoring(c *gin.Context) {
	var params services.AddCourseProctoringParams
	if !h.bindURI(c, &params) {
		return
	}

	var body services.AddCourseProctoringBody
	if !h.bindJSON(c, &body) {
		return
	}

	h.LogRequest(c, "Updating course proctoring", "course_id", params.CourseID, "version_id", params.VersionID)

	updated, err := h.settingsService.UpdateProctoring(c.Request.Context(), &params, &body)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.SuccessFlagResponse{Success: updated})
}

// RemoveCourseProctoring drops one detector from a course version
// @Summary Remove course proctoring detector
// @Tags course-settings
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param versionId path string true "Course version ID"
// @Param body body services.RemoveCourseProctoringBody true "Detector"
// @Success 200 {object} services.SuccessFlagResponse
// @Router /settings/courses/{courseId}/{versionId}/proctoring [delete]
func (h *CourseSettingsHandler) RemoveCourseProctoring(c *gin.Context) {
	var params services.RemoveCourseProctoringParams
	if !h.bindURI(c, &params) {
		return
	}

	var body services.RemoveCourseProctoringBody
	if !h.bindJSON(c, &body) {
		return
	}

	h.LogRequest(c, "Removing course proctoring detector",
		"course_id", params.CourseID, "version_id", params.VersionID, "detector", body.DetectorName)

	removed, err := h.settingsService.RemoveProctoring(c.Request.Context(), &params, &body)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.SuccessFlagResponse{Success: removed})
}
