package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-service/internal/middleware"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const maxImportFileSize = 10 << 20

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	importService   services.ImportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importService services.ImportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		importService:   importService,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Description Validates the payload against its type's rules and stores it
// @Tags questions
// @Accept json
// @Param question body services.CreateQuestionBody true "Question and solution"
// @Success 201
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var body services.CreateQuestionBody
	if !h.bindJSON(c, &body) {
		return
	}

	userID := c.GetString(middleware.ContextKeyUserID)
	if _, err := h.questionService.Create(c.Request.Context(), &body, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// ImportQuestions creates questions from an uploaded .csv or .xlsx file
// @Summary Import questions
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if header.Size > maxImportFileSize {
		h.RespondWithError(c, http.StatusBadRequest, "file is too large", nil, map[string]interface{}{
			"maxBytes": maxImportFileSize,
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "unable to read file", err)
		return
	}
	defer file.Close()

	userID := c.GetString(middleware.ContextKeyUserID)
	result, err := h.importService.ImportQuestions(c.Request.Context(), file, header.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
