package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/SAP-F-2025/course-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func questionRequest(qType models.QuestionType, solution string) *http.Request {
	body := `{"question":{"text":"Which one?","type":"` + string(qType) + `","points":2,"timeLimitSeconds":30},"solution":` + solution + `}`
	req := httptest.NewRequest(http.MethodPost, "/questions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateQuestion_ValidPayloads(t *testing.T) {
	solutions := map[models.QuestionType]string{
		models.SelectOneInLot:    `{"correctLotItem":{"text":"a"},"incorrectLotItems":[{"text":"b"}]}`,
		models.SelectManyInLot:   `{"correctLotItems":[{"text":"a"},{"text":"b"}],"incorrectLotItems":[]}`,
		models.OrderTheLots:      `{"ordering":[{"lotItem":{"text":"a"},"order":2},{"lotItem":{"text":"b"},"order":1}]}`,
		models.NumericAnswerType: `{"decimalPrecision":2,"lowerLimit":1,"upperLimit":5,"value":3}`,
		models.Descriptive:       `{"solutionText":"anything"}`,
	}

	for qType, solution := range solutions {
		t.Run(string(qType), func(t *testing.T) {
			srv := newTestServer(t, config.FeatureConfig{})
			srv.questions.On("Create", mock.Anything, mock.MatchedBy(func(r *models.QuestionRecord) bool {
				return r.Type == qType && r.CreatedBy == "instructor-1"
			})).Return(nil).Once()

			w := srv.do(questionRequest(qType, solution), tokenFor(t, "instructor-1", models.RoleInstructor))

			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Empty(t, w.Body.String())

			published := srv.publisher.GetPublishedEvents()
			require.Len(t, published, 1)
			assert.Equal(t, events.EventQuestionCreated, published[0].Type)
		})
	}
}

func TestCreateQuestion_RuleViolation(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})

	req := questionRequest(models.NumericAnswerType, `{"decimalPrecision":2,"lowerLimit":9,"upperLimit":1,"value":3}`)
	w := srv.do(req, tokenFor(t, "instructor-1", models.RoleInstructor))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lower limit cannot be greater than upper limit", resp.Message)

	details, ok := resp.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "nat_limits", details["rule"])
	assert.Equal(t, map[string]interface{}{"lowerLimit": 9.0, "upperLimit": 1.0}, details["context"])
	srv.questions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateQuestion_BadRequests(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	token := tokenFor(t, "admin-1", models.RoleAdmin)

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/questions", bytes.NewBufferString(`{"question":`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, srv.do(req, token).Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		w := srv.do(questionRequest("ESSAY", `{}`), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("solution for another type", func(t *testing.T) {
		w := srv.do(questionRequest(models.Descriptive, `{"value":3}`), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateQuestion_Access(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	solution := `{"solutionText":"x"}`

	assert.Equal(t, http.StatusUnauthorized, srv.do(questionRequest(models.Descriptive, solution), "").Code)
	assert.Equal(t, http.StatusForbidden,
		srv.do(questionRequest(models.Descriptive, solution), tokenFor(t, "student-1", models.RoleStudent)).Code)
}

func TestImportQuestions(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "questions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("type,text,solution\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	srv.manager.importer.On("ImportQuestions", mock.Anything, "questions.csv", "admin-1").
		Return(&services.ImportResult{
			TotalRows:  2,
			ErrorCount: 1,
			Errors:     []services.ImportRowError{{Row: 3, Message: "text is required"}},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/questions/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := srv.do(req, tokenFor(t, "admin-1", models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)

	var result services.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestImportQuestions_Errors(t *testing.T) {
	srv := newTestServer(t, config.FeatureConfig{})
	token := tokenFor(t, "admin-1", models.RoleAdmin)

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/questions/import", nil)
		assert.Equal(t, http.StatusBadRequest, srv.do(req, token).Code)
	})

	t.Run("unsupported format", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "questions.txt")
		require.NoError(t, err)
		_, _ = part.Write([]byte("hello"))
		require.NoError(t, writer.Close())

		srv.manager.importer.On("ImportQuestions", mock.Anything, "questions.txt", "admin-1").
			Return(nil, services.ErrImportUnsupportedFormat).Once()

		req := httptest.NewRequest(http.MethodPost, "/questions/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, srv.do(req, token).Code)
	})
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/questions/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportQuestions_UnreadableUpload(t *testing.T) {
	questions := &questionRepository{}
	importer := services.NewImportService(services.Dependencies{
		Repo:      &repository{question: questions},
		Validator: validator.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	router := gin.New()
	router.POST("/questions/import", NewQuestionHandler(nil, importer, utils.NewNopLogger()).ImportQuestions)

	uploads := map[string]string{
		"bad.csv":  "type,text,solution\nDESCRIPTIVE,\"unterminated,{}\n",
		"bad.xlsx": "definitely not a zip archive",
	}

	for filename, content := range uploads {
		t.Run(filename, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartUpload(t, filename, content))

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Message, "bad request")
		})
	}

	questions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
